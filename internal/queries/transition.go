package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/pkg/repository"
)

// Lock takes a row lock on the query inside tx and returns its current
// status. Callers that read-modify-write status must hold this lock.
func Lock(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Status, error) {
	var status Status
	err := tx.QueryRowContext(
		ctx,
		"SELECT status FROM queries WHERE id = $1 FOR UPDATE",
		id,
	).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lock query: %w", err)
	}
	return status, nil
}

// SetStatus records a status produced by one of the transition functions.
func SetStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status Status) error {
	err := repository.ExecExpectOne(
		ctx, tx,
		"UPDATE queries SET status = $1, updated_at = now() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}
