package roles

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/caregate/pkg/handlers"
)

type ctxKey struct{}

// WithRole returns a context carrying role.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

// FromContext returns the role stored by Middleware, or Patient when absent.
func FromContext(ctx context.Context) Role {
	if r, ok := ctx.Value(ctxKey{}).(Role); ok {
		return r
	}
	return Patient
}

// Middleware resolves the caller's role before the request reaches any handler.
// Unrecognized roles are rejected with 403 and bad bearer tokens with 401.
func Middleware(resolver Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "roles")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := resolver.Resolve(r)
			if err != nil {
				status := MapHTTPStatus(err)
				if status == 0 {
					status = http.StatusInternalServerError
				}
				handlers.RespondError(w, logger, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRole(r.Context(), role)))
		})
	}
}

// Require wraps a handler so it only runs when the request's role may perform op.
// The role carried by the context is gated as a token, so values that never
// passed through Parse are rejected.
func Require(op Operation, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := Gate(FromContext(r.Context()).String(), op); err != nil {
			handlers.RespondError(w, logger, MapHTTPStatus(err), err)
			return
		}
		next(w, r)
	}
}
