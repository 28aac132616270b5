package roles_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/caregate/internal/roles"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		token   string
		want    roles.Role
		wantErr error
	}{
		{"", roles.Patient, nil},
		{"   ", roles.Patient, nil},
		{"patient", roles.Patient, nil},
		{"DOCTOR", roles.Doctor, nil},
		{" Admin ", roles.Admin, nil},
		{"supervisor", "", roles.ErrInvalidRole},
		{"doctors", "", roles.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := roles.Parse(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.token, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var r roles.Role
	if err := json.Unmarshal([]byte(`"Doctor"`), &r); err != nil || r != roles.Doctor {
		t.Errorf("unmarshal doctor = %q, %v", r, err)
	}
	if err := json.Unmarshal([]byte(`"nurse"`), &r); !errors.Is(err, roles.ErrInvalidRole) {
		t.Errorf("unmarshal nurse error = %v, want ErrInvalidRole", err)
	}
}

func TestHighest(t *testing.T) {
	tests := []struct {
		name string
		set  []roles.Role
		want roles.Role
	}{
		{"empty", nil, roles.Patient},
		{"single", []roles.Role{roles.Doctor}, roles.Doctor},
		{"mixed", []roles.Role{roles.Doctor, roles.Admin, roles.Patient}, roles.Admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roles.Highest(tt.set...); got != tt.want {
				t.Errorf("Highest(%v) = %q, want %q", tt.set, got, tt.want)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		op      roles.Operation
		allowed map[roles.Role]bool
	}{
		{roles.CreateQuery, map[roles.Role]bool{roles.Patient: true, roles.Doctor: true, roles.Admin: true}},
		{roles.ListQueries, map[roles.Role]bool{roles.Doctor: true, roles.Admin: true}},
		{roles.UpdateTriage, map[roles.Role]bool{roles.Doctor: true, roles.Admin: true}},
		{roles.ListPending, map[roles.Role]bool{roles.Doctor: true, roles.Admin: true}},
		{roles.DecideReview, map[roles.Role]bool{roles.Doctor: true}},
		{roles.LatestReview, map[roles.Role]bool{roles.Patient: true, roles.Doctor: true, roles.Admin: true}},
		{roles.ManagePrompts, map[roles.Role]bool{roles.Admin: true}},
		{roles.Operation("unknown"), map[roles.Role]bool{}},
	}

	for _, tt := range tests {
		for _, role := range roles.All() {
			t.Run(string(tt.op)+"/"+string(role), func(t *testing.T) {
				err := roles.Authorize(role, tt.op)
				if tt.allowed[role] && err != nil {
					t.Errorf("Authorize(%s, %s) = %v, want allowed", role, tt.op, err)
				}
				if !tt.allowed[role] && !errors.Is(err, roles.ErrForbidden) {
					t.Errorf("Authorize(%s, %s) = %v, want ErrForbidden", role, tt.op, err)
				}
			})
		}
	}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		op      roles.Operation
		want    roles.Role
		wantErr error
	}{
		{"empty token is patient", "", roles.GetQuery, roles.Patient, nil},
		{"empty token cannot decide", "", roles.DecideReview, "", roles.ErrForbidden},
		{"admin cannot decide", "admin", roles.DecideReview, "", roles.ErrForbidden},
		{"doctor decides", "doctor", roles.DecideReview, roles.Doctor, nil},
		{"unknown role", "supervisor", roles.GetQuery, "", roles.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roles.Gate(tt.token, tt.op)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Gate() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Gate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{roles.ErrInvalidRole, http.StatusForbidden},
		{roles.ErrForbidden, http.StatusForbidden},
		{roles.ErrUnauthenticated, http.StatusUnauthorized},
		{errors.New("other"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := roles.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]any
		want    roles.Role
		wantErr error
	}{
		{"missing claim", map[string]any{}, roles.Patient, nil},
		{"string claim", map[string]any{"roles": "doctor"}, roles.Doctor, nil},
		{"array picks highest", map[string]any{"roles": []any{"patient", "admin", "offline_access"}}, roles.Admin, nil},
		{"array without known roles", map[string]any{"roles": []any{"offline_access"}}, "", roles.ErrInvalidRole},
		{"unknown string", map[string]any{"roles": "root"}, "", roles.ErrInvalidRole},
		{"wrong type", map[string]any{"roles": 42.0}, "", roles.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roles.FromClaims(tt.claims, "roles")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FromClaims() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FromClaims() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenResolver(t *testing.T) {
	verifier := oidc.NewVerifier("https://issuer.test", &oidc.StaticKeySet{}, &oidc.Config{SkipClientIDCheck: true})
	resolver := roles.NewTokenResolver(verifier, "roles")

	t.Run("no bearer is patient", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		got, err := resolver.Resolve(req)
		if err != nil || got != roles.Patient {
			t.Errorf("Resolve() = %q, %v, want patient", got, err)
		}
	})

	t.Run("malformed token is unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		_, err := resolver.Resolve(req)
		if !errors.Is(err, roles.ErrUnauthenticated) {
			t.Errorf("Resolve() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestConfigFinalize(t *testing.T) {
	cfg := roles.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Mode != roles.ModeHeader || cfg.Header != "X-User-Role" || cfg.RoleClaim != "roles" {
		t.Errorf("defaults = %+v", cfg)
	}

	oidcCfg := roles.Config{Mode: roles.ModeOIDC}
	if err := oidcCfg.Finalize(nil); err == nil {
		t.Error("oidc mode without issuer should fail validation")
	}

	t.Setenv("CG_TEST_AUTH_MODE", "bogus")
	bad := roles.Config{}
	if err := bad.Finalize(&roles.Env{Mode: "CG_TEST_AUTH_MODE"}); err == nil {
		t.Error("unknown mode should fail validation")
	}
}

func TestNewResolverHeaderMode(t *testing.T) {
	cfg := roles.Config{Mode: roles.ModeHeader, Header: "X-Role"}
	resolver, err := roles.NewResolver(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Role", "admin")
	if got, _ := resolver.Resolve(req); got != roles.Admin {
		t.Errorf("Resolve() = %q, want admin", got)
	}
}

func TestMiddleware(t *testing.T) {
	resolver := roles.HeaderResolver{Header: "X-User-Role"}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   roles.Role
	}{
		{"no header", "", http.StatusOK, roles.Patient},
		{"doctor", "doctor", http.StatusOK, roles.Doctor},
		{"invalid", "supervisor", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen roles.Role
			handler := roles.Middleware(resolver, discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = roles.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-User-Role", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if seen != tt.wantRole {
				t.Errorf("role = %q, want %q", seen, tt.wantRole)
			}
		})
	}
}

func TestFromContextDefault(t *testing.T) {
	if got := roles.FromContext(context.Background()); got != roles.Patient {
		t.Errorf("FromContext(empty) = %q, want patient", got)
	}
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name       string
		role       roles.Role
		wantStatus int
	}{
		{"admin manages prompts", roles.Admin, http.StatusNoContent},
		{"doctor cannot manage prompts", roles.Doctor, http.StatusForbidden},
		{"patient cannot manage prompts", roles.Patient, http.StatusForbidden},
		{"unparsed role rejected", roles.Role("supervisor"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := roles.Require(roles.ManagePrompts, discard(), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(roles.WithRole(req.Context(), tt.role))
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
