package queries_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/queries"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/pagination"
	"github.com/JaimeStill/caregate/pkg/routes"
)

type mockSystem struct {
	submitFn       func(ctx context.Context, cmd queries.CreateCommand) (*queries.Query, error)
	findFn         func(ctx context.Context, id uuid.UUID) (*queries.Query, error)
	listFn         func(ctx context.Context, page pagination.PageRequest, filters queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error)
	listTriagedFn  func(ctx context.Context, page pagination.PageRequest, filters queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error)
	listUrgentFn   func(ctx context.Context, page pagination.PageRequest, role roles.Role) (*pagination.PageResult[queries.Query], error)
	updateTriageFn func(ctx context.Context, id uuid.UUID, level queries.Triage, role roles.Role) (*queries.Query, error)
}

func (m *mockSystem) Handler() *queries.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Submit(ctx context.Context, cmd queries.CreateCommand) (*queries.Query, error) {
	return m.submitFn(ctx, cmd)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*queries.Query, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error) {
	return m.listFn(ctx, page, filters, role)
}

func (m *mockSystem) ListTriaged(ctx context.Context, page pagination.PageRequest, filters queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error) {
	return m.listTriagedFn(ctx, page, filters, role)
}

func (m *mockSystem) ListUrgent(ctx context.Context, page pagination.PageRequest, role roles.Role) (*pagination.PageResult[queries.Query], error) {
	return m.listUrgentFn(ctx, page, role)
}

func (m *mockSystem) UpdateTriage(ctx context.Context, id uuid.UUID, level queries.Triage, role roles.Role) (*queries.Query, error) {
	return m.updateTriageFn(ctx, id, level, role)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(sys queries.System) *queries.Handler {
	return queries.NewHandler(sys, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func setupMux(h *queries.Handler) http.Handler {
	mux := http.NewServeMux()
	for _, group := range []routes.Group{h.Routes(), h.TriageRoutes()} {
		for _, route := range group.Routes {
			mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
		}
	}
	return roles.Middleware(roles.HeaderResolver{Header: "X-User-Role"}, discard())(mux)
}

func serve(h http.Handler, method, target string, body []byte, role string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T { return &v }

func sampleQuery() queries.Query {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return queries.Query{
		ID:            uuid.MustParse("7d1f9f5e-3c2b-4a8e-9f61-2b7c0a8e4d10"),
		QueryText:     "sharp chest pain when breathing",
		EnhancedQuery: ptr("Enhanced: sharp chest pain when breathing"),
		Status:        queries.StatusNeedsReview,
		TriageLevel:   ptr(queries.TriageMedium),
		SafetyScore:   ptr(0.6),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestHandlerCreate(t *testing.T) {
	q := sampleQuery()

	tests := []struct {
		name       string
		role       string
		body       string
		submitErr  error
		wantStatus int
	}{
		{"anonymous patient submits", "", `{"query_text":"sharp chest pain when breathing"}`, nil, http.StatusCreated},
		{"doctor submits", "doctor", `{"query_text":"sharp chest pain when breathing"}`, nil, http.StatusCreated},
		{"empty text", "patient", `{"query_text":"  "}`, queries.ErrEmptyQuery, http.StatusBadRequest},
		{"unknown role", "supervisor", `{"query_text":"x"}`, nil, http.StatusForbidden},
		{"malformed body", "patient", `{"query_text":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				submitFn: func(_ context.Context, cmd queries.CreateCommand) (*queries.Query, error) {
					if tt.submitErr != nil {
						return nil, tt.submitErr
					}
					return &q, nil
				},
			}

			rec := serve(setupMux(newTestHandler(sys)), "POST", "/queries", []byte(tt.body), tt.role)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var got map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["status"] != "needs_review" || got["triage_level"] != "medium" {
				t.Errorf("body = %v", got)
			}
		})
	}
}

func TestHandlerFind(t *testing.T) {
	q := sampleQuery()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*queries.Query, error) {
			if id != q.ID {
				return nil, queries.ErrNotFound
			}
			return &q, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"found", "/queries/" + q.ID.String(), http.StatusOK},
		{"missing", "/queries/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", "/queries/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, "GET", tt.target, nil, "patient")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandlerGatesSubmitAndFind(t *testing.T) {
	q := sampleQuery()
	called := false
	sys := &mockSystem{
		submitFn: func(context.Context, queries.CreateCommand) (*queries.Query, error) {
			called = true
			return &q, nil
		},
		findFn: func(context.Context, uuid.UUID) (*queries.Query, error) {
			called = true
			return &q, nil
		},
	}

	mux := http.NewServeMux()
	group := newTestHandler(sys).Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"create", "POST", "/queries", `{"query_text":"persistent cough"}`},
		{"find", "GET", "/queries/" + q.ID.String(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(tt.body))
			req = req.WithContext(roles.WithRole(req.Context(), roles.Role("nurse")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
			if called {
				t.Error("system reached with an unrecognized role")
			}
		})
	}
}

func TestHandlerListPassesRole(t *testing.T) {
	var gotRole roles.Role
	var gotFilters queries.Filters
	var gotPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error) {
			gotRole, gotFilters, gotPage = role, f, page
			if err := roles.Authorize(role, roles.ListQueries); err != nil {
				return nil, err
			}
			result := pagination.NewPageResult([]queries.Query{sampleQuery()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := serve(mux, "GET", "/queries?status=needs_review&limit=10&offset=10", nil, "Doctor")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotRole != roles.Doctor {
		t.Errorf("role = %s, want doctor", gotRole)
	}
	if gotFilters.Status == nil || *gotFilters.Status != queries.StatusNeedsReview {
		t.Errorf("status filter = %v", gotFilters.Status)
	}
	if gotPage.Page != 2 || gotPage.PageSize != 10 {
		t.Errorf("page = %+v, want page 2 size 10", gotPage)
	}

	rec = serve(mux, "GET", "/queries", nil, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous status = %d, want 403", rec.Code)
	}
}

func TestHandlerUpdateTriage(t *testing.T) {
	q := sampleQuery()

	tests := []struct {
		name       string
		role       string
		body       string
		wantStatus int
		wantLevel  queries.Triage
	}{
		{"doctor escalates", "doctor", `{"triage_level":"urgent"}`, http.StatusOK, queries.TriageUrgent},
		{"admin downgrades", "admin", `{"triage_level":"low"}`, http.StatusOK, queries.TriageLow},
		{"patient forbidden", "patient", `{"triage_level":"urgent"}`, http.StatusForbidden, ""},
		{"invalid level", "doctor", `{"triage_level":"critical"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLevel queries.Triage
			sys := &mockSystem{
				updateTriageFn: func(_ context.Context, _ uuid.UUID, level queries.Triage, role roles.Role) (*queries.Query, error) {
					if err := roles.Authorize(role, roles.UpdateTriage); err != nil {
						return nil, err
					}
					gotLevel = level
					updated := q
					updated.TriageLevel = &level
					updated.Status = queries.AfterTriageUpdate(q.Status, level)
					return &updated, nil
				},
			}

			rec := serve(setupMux(newTestHandler(sys)), "PUT", "/triage/"+q.ID.String(), []byte(tt.body), tt.role)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if gotLevel != tt.wantLevel {
				t.Errorf("level = %q, want %q", gotLevel, tt.wantLevel)
			}
		})
	}
}

func TestHandlerTriageListings(t *testing.T) {
	var triagedFilters queries.Filters
	urgentCalled := false

	sys := &mockSystem{
		listTriagedFn: func(_ context.Context, page pagination.PageRequest, f queries.Filters, role roles.Role) (*pagination.PageResult[queries.Query], error) {
			triagedFilters = f
			result := pagination.NewPageResult[queries.Query](nil, 0, page.Page, page.PageSize)
			return &result, nil
		},
		listUrgentFn: func(_ context.Context, page pagination.PageRequest, role roles.Role) (*pagination.PageResult[queries.Query], error) {
			urgentCalled = true
			if err := roles.Authorize(role, roles.ListUrgent); err != nil {
				return nil, err
			}
			result := pagination.NewPageResult[queries.Query](nil, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := serve(mux, "GET", "/triage?triage_level=high&status=processing", nil, "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("triaged status = %d", rec.Code)
	}
	if triagedFilters.TriageLevel == nil || *triagedFilters.TriageLevel != queries.TriageHigh {
		t.Errorf("triage filter = %v", triagedFilters.TriageLevel)
	}
	if triagedFilters.Status == nil || *triagedFilters.Status != queries.StatusProcessing {
		t.Errorf("status filter = %v", triagedFilters.Status)
	}

	rec = serve(mux, "GET", "/triage/urgent", nil, "patient")
	if !urgentCalled {
		t.Fatal("urgent route did not reach the system")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient urgent status = %d, want 403", rec.Code)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{queries.ErrNotFound, http.StatusNotFound},
		{queries.ErrInvalidState, http.StatusConflict},
		{queries.ErrEmptyQuery, http.StatusBadRequest},
		{queries.ErrInvalidTriage, http.StatusBadRequest},
		{roles.ErrForbidden, http.StatusForbidden},
		{roles.ErrInvalidRole, http.StatusForbidden},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := queries.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
