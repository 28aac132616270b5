package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/handlers"
	"github.com/JaimeStill/caregate/pkg/routes"
)

// multipartOverhead allows for form boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// Handler provides HTTP endpoints for attachment operations.
type Handler struct {
	sys     System
	logger  *slog.Logger
	maxSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxSize int64) *Handler {
	return &Handler{
		sys:     sys,
		logger:  logger.With("handler", "files"),
		maxSize: maxSize,
	}
}

// Routes returns the route group definition for attachment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/files",
		Tags:        []string{"Files"},
		Description: "Query attachments",
		Schemas:     spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload/{queryId}", Handler: roles.Require(roles.UploadFile, h.logger, h.Upload), OpenAPI: spec.Upload},
			{Method: "GET", Pattern: "/query/{queryId}", Handler: roles.Require(roles.ListFiles, h.logger, h.ListByQuery), OpenAPI: spec.ListByQuery},
			{Method: "GET", Pattern: "/{id}", Handler: roles.Require(roles.ListFiles, h.logger, h.Find), OpenAPI: spec.Find},
			{Method: "GET", Pattern: "/{id}/download", Handler: roles.Require(roles.DownloadFile, h.logger, h.Download), OpenAPI: spec.Download},
		},
	}
}

// Upload stores a single multipart "file" part against a query.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	queryID, err := uuid.Parse(r.PathValue("queryId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrQueryNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidFile, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: missing file part", ErrInvalidFile))
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	f, err := h.sys.Upload(r.Context(), UploadCommand{
		QueryID:     queryID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, f)
}

// ListByQuery returns every attachment for a query, including expired ones.
func (h *Handler) ListByQuery(w http.ResponseWriter, r *http.Request) {
	queryID, err := uuid.Parse(r.PathValue("queryId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrQueryNotFound)
		return
	}

	files, err := h.sys.ListByQuery(r.Context(), queryID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, files)
}

// Find returns attachment metadata by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	f, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, f)
}

// Download streams an unexpired attachment. Expired attachments return 410.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	f, obj, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", f.FileType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": f.OriginalFilename,
	}))
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("file download interrupted", "id", id, "error", err)
	}
}
