package reviews

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/handlers"
	"github.com/JaimeStill/caregate/pkg/pagination"
	"github.com/JaimeStill/caregate/pkg/routes"
)

// Handler provides HTTP endpoints for the review workflow.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "reviews"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for review endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/reviews",
		Tags:        []string{"Reviews"},
		Description: "Response generation and doctor review",
		Schemas:     spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/generate", Handler: h.Generate, OpenAPI: spec.Generate},
			{Method: "GET", Pattern: "/pending", Handler: h.Pending, OpenAPI: spec.Pending},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Decide, OpenAPI: spec.Decide},
			{Method: "GET", Pattern: "/{queryId}", Handler: h.Latest, OpenAPI: spec.Latest},
		},
	}
}

// Generate drafts a response for the query named in the body.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var cmd GenerateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if cmd.QueryID == uuid.Nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrQueryRequired)
		return
	}

	review, err := h.sys.Generate(r.Context(), cmd.QueryID, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, review)
}

// Pending returns the newest response for each query awaiting review.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Pending(r.Context(), page, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Decide records a doctor's decision on a response.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd DecideCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	review, err := h.sys.Decide(r.Context(), id, cmd, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}

// Latest returns the newest response for a query.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	queryID, err := uuid.Parse(r.PathValue("queryId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	review, err := h.sys.Latest(r.Context(), queryID, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}
