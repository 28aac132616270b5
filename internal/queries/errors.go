package queries

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/caregate/internal/roles"
)

var (
	ErrNotFound      = errors.New("query not found")
	ErrDuplicate     = errors.New("query already exists")
	ErrInvalidState  = errors.New("operation not valid for query status")
	ErrEmptyQuery    = errors.New("query text required")
	ErrInvalidTriage = errors.New("triage level must be low, medium, high, or urgent")
	ErrInvalidStatus = errors.New("unknown query status")
)

// MapHTTPStatus maps query and role errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := roles.MapHTTPStatus(err); status != 0 {
		return status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyQuery),
		errors.Is(err, ErrInvalidTriage),
		errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
