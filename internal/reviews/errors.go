package reviews

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/caregate/internal/queries"
	"github.com/JaimeStill/caregate/internal/roles"
)

var (
	ErrNotFound         = errors.New("response not found")
	ErrDuplicate        = errors.New("response already exists")
	ErrDecisionRequired = errors.New("is_approved is required")
	ErrQueryRequired    = errors.New("query_id is required")
)

// MapHTTPStatus maps review, query, and role errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := roles.MapHTTPStatus(err); status != 0 {
		return status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrDecisionRequired), errors.Is(err, ErrQueryRequired):
		return http.StatusBadRequest
	default:
		return queries.MapHTTPStatus(err)
	}
}
