package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// MapError translates database errors to domain errors.
// sql.ErrNoRows maps to notFoundErr and a unique violation maps to duplicateErr.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if IsViolation(err, CodeUniqueViolation) {
		return duplicateErr
	}

	return err
}

// MapReference behaves like MapError but additionally maps a foreign key
// violation to missingRefErr, for inserts whose parent row may not exist.
func MapReference(err error, notFoundErr, duplicateErr, missingRefErr error) error {
	if IsViolation(err, CodeForeignKeyViolation) {
		return missingRefErr
	}
	return MapError(err, notFoundErr, duplicateErr)
}

// IsViolation reports whether err carries the given PostgreSQL error code.
func IsViolation(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
