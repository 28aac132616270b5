package files

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/pkg/lifecycle"
	"github.com/JaimeStill/caregate/pkg/storage"
)

// System defines the public contract for attachment operations.
type System interface {
	Handler() *Handler

	// Start launches the expired-attachment sweeper on the lifecycle context.
	Start(lc *lifecycle.Coordinator) error

	Upload(ctx context.Context, cmd UploadCommand) (*File, error)
	Find(ctx context.Context, id uuid.UUID) (*File, error)
	ListByQuery(ctx context.Context, queryID uuid.UUID) ([]File, error)

	// Download opens an unexpired attachment's blob. The caller must close
	// the returned object's Body.
	Download(ctx context.Context, id uuid.UUID) (*File, *storage.Object, error)

	// Summaries returns the summaries of unexpired attachments for a query,
	// oldest first.
	Summaries(ctx context.Context, queryID uuid.UUID) ([]string, error)

	// Purge removes expired attachments and their blobs, returning the count.
	Purge(ctx context.Context) (int, error)
}
