package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/queries"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/pagination"
)

// System defines the public contract for the review workflow.
type System interface {
	Handler() *Handler

	// Generate drafts a response for a processing or in-review query and
	// moves the query into review.
	Generate(ctx context.Context, queryID uuid.UUID, role roles.Role) (*Review, error)

	// Pending returns the newest response of every query awaiting review.
	Pending(ctx context.Context, page pagination.PageRequest, role roles.Role) (*pagination.PageResult[Review], error)

	// Decide records approval or rejection. Deciding again overwrites the
	// previous decision.
	Decide(ctx context.Context, responseID uuid.UUID, cmd DecideCommand, role roles.Role) (*Review, error)

	// Latest returns the newest response for a query.
	Latest(ctx context.Context, queryID uuid.UUID, role roles.Role) (*Review, error)
}

// QuerySource looks up queries for generation.
type QuerySource interface {
	Find(ctx context.Context, id uuid.UUID) (*queries.Query, error)
}

// AttachmentSource supplies unexpired attachment summaries for a query.
type AttachmentSource interface {
	Summaries(ctx context.Context, queryID uuid.UUID) ([]string, error)
}
