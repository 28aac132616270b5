package docs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/caregate/pkg/module"
	"github.com/JaimeStill/caregate/web/docs"
)

func TestModuleServesReference(t *testing.T) {
	router := module.NewRouter()
	router.Mount(docs.NewModule("/docs", "Caregate API", "/api/openapi.json"))

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"root with slash", "/docs/", http.StatusOK},
		{"root without slash", "/docs", http.StatusOK},
		{"unknown asset", "/docs/missing.js", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := rec.Body.String()
			if !strings.Contains(body, `data-url="/api/openapi.json"`) {
				t.Errorf("body missing spec url: %s", body)
			}
			if !strings.Contains(body, "<title>Caregate API</title>") {
				t.Errorf("body missing title: %s", body)
			}
		})
	}
}
