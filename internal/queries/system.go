package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/pagination"
)

// System defines the public contract for query domain operations.
// Operations restricted by role take the caller's role explicitly.
type System interface {
	Handler() *Handler

	// Submit persists a pending query, evaluates it, and records the
	// resulting enhancement, score, triage, and status.
	Submit(ctx context.Context, cmd CreateCommand) (*Query, error)

	Find(ctx context.Context, id uuid.UUID) (*Query, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
		role roles.Role,
	) (*pagination.PageResult[Query], error)

	// ListTriaged is List restricted to queries that have a triage level.
	ListTriaged(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
		role roles.Role,
	) (*pagination.PageResult[Query], error)

	ListUrgent(
		ctx context.Context,
		page pagination.PageRequest,
		role roles.Role,
	) (*pagination.PageResult[Query], error)

	UpdateTriage(ctx context.Context, id uuid.UUID, level Triage, role roles.Role) (*Query, error)
}
