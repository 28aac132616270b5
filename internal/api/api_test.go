package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/caregate/internal/api"
	"github.com/JaimeStill/caregate/internal/config"
	"github.com/JaimeStill/caregate/internal/infrastructure"
	"github.com/JaimeStill/caregate/pkg/module"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=caregatestore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/caregatestore;"

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CAREGATE_STORAGE_CONNECTION_STRING", azuriteConnString)
	t.Setenv("CAREGATE_LOG_LEVEL", "error")

	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("config.LoadFrom() error = %v", err)
	}
	return cfg
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() {
		infra.Lifecycle.Shutdown(5 * time.Second)
	})
	return infra
}

func setupRouter(t *testing.T) *module.Router {
	t.Helper()
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(context.Background(), cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(context.Background(), cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	runtime := api.NewRuntime(cfg, setupInfra(t, cfg))

	domain, err := api.NewDomain(runtime)
	if err != nil {
		t.Fatalf("NewDomain() error = %v", err)
	}
	if domain.Queries == nil || domain.Reviews == nil || domain.Files == nil || domain.Prompts == nil || domain.Stages == nil {
		t.Errorf("NewDomain() left a system nil: %+v", domain)
	}
}

func TestNewDomainUnknownProvider(t *testing.T) {
	cfg := validConfig(t)
	cfg.Stages.Provider = "carrier-pigeon"
	runtime := api.NewRuntime(cfg, setupInfra(t, cfg))

	if _, err := api.NewDomain(runtime); err == nil {
		t.Fatal("expected error for unknown stage provider")
	}
}

func TestOpenAPIDocument(t *testing.T) {
	router := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, path := range []string{
		"/api/queries",
		"/api/queries/{id}",
		"/api/triage/urgent",
		"/api/reviews/generate",
		"/api/reviews/pending",
		"/api/files/upload/{queryId}",
		"/api/files/{id}/download",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("openapi paths missing %s", path)
		}
	}
}

func TestRoleGateBeforeStorage(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name       string
		method     string
		target     string
		role       string
		wantStatus int
	}{
		{"patient lists pending", http.MethodGet, "/api/reviews/pending", "patient", http.StatusForbidden},
		{"patient lists queries", http.MethodGet, "/api/queries", "", http.StatusForbidden},
		{"doctor cannot create prompts", http.MethodPost, "/api/prompts", "doctor", http.StatusForbidden},
		{"unknown role", http.MethodGet, "/api/triage/urgent", "supervisor", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.role != "" {
				req.Header.Set("X-User-Role", tt.role)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
