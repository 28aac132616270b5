package files

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/storage"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrDuplicate       = errors.New("file already exists")
	ErrQueryNotFound   = errors.New("query not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrInvalidFile     = errors.New("invalid file")
	ErrExpired         = errors.New("file has expired")
)

// MapHTTPStatus maps file, storage, and role errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if status := roles.MapHTTPStatus(err); status != 0 {
		return status
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrQueryNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
