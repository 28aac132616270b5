package roles

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrForbidden       = errors.New("operation not permitted for role")
	ErrUnauthenticated = errors.New("invalid or expired bearer token")
)

// MapHTTPStatus maps role errors to HTTP status codes. It returns 0 for
// errors that are not role errors so callers can fall through to their own mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return 0
	}
}
