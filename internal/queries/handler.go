package queries

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/handlers"
	"github.com/JaimeStill/caregate/pkg/pagination"
	"github.com/JaimeStill/caregate/pkg/routes"
)

// Handler provides HTTP endpoints for query and triage operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "queries"),
		pagination: pagination,
	}
}

// Routes returns the route group for query submission and retrieval.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/queries",
		Tags:        []string{"Queries"},
		Description: "Medical query submission and retrieval",
		Schemas:     spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: roles.Require(roles.CreateQuery, h.logger, h.Create), OpenAPI: spec.Create},
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: roles.Require(roles.GetQuery, h.logger, h.Find), OpenAPI: spec.Find},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: spec.Search},
		},
	}
}

// TriageRoutes returns the route group for triage review and overrides.
func (h *Handler) TriageRoutes() routes.Group {
	return routes.Group{
		Prefix:      "/triage",
		Tags:        []string{"Triage"},
		Description: "Triage classification and overrides",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListTriaged, OpenAPI: spec.ListTriaged},
			{Method: "GET", Pattern: "/urgent", Handler: h.ListUrgent, OpenAPI: spec.ListUrgent},
			{Method: "PUT", Pattern: "/{id}", Handler: h.UpdateTriage, OpenAPI: spec.UpdateTriage},
		},
	}
}

// Create submits a new query and returns it after evaluation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	q, err := h.sys.Submit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, q)
}

// Find returns a single query by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	q, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, q)
}

// List returns a paginated list of queries with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching queries.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListTriaged returns queries that carry a triage level, filtered by
// triage_level and status.
func (h *Handler) ListTriaged(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListTriaged(r.Context(), page, filters, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListUrgent returns urgent queries, newest first.
func (h *Handler) ListUrgent(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListUrgent(r.Context(), page, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateTriage applies a manual triage override.
func (h *Handler) UpdateTriage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd TriageCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	q, err := h.sys.UpdateTriage(r.Context(), id, cmd.TriageLevel, roles.FromContext(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, q)
}
