package files

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/caregate/pkg/lifecycle"
	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
	"github.com/JaimeStill/caregate/pkg/storage"
)

const purgeConcurrency = 4

type repo struct {
	db      *sql.DB
	storage storage.System
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a file repository implementing the System interface.
// cfg must already be finalized.
func New(
	db *sql.DB,
	store storage.System,
	cfg Config,
	logger *slog.Logger,
) System {
	return &repo{
		db:      db,
		storage: store,
		cfg:     cfg,
		logger:  logger.With("system", "files"),
		now:     time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.cfg.MaxSizeBytes())
}

func (r *repo) Start(lc *lifecycle.Coordinator) error {
	interval := r.cfg.SweepIntervalDuration()
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				return
			case <-ticker.C:
				if n, err := r.Purge(lc.Context()); err != nil {
					r.logger.Warn("expired file sweep failed", "error", err)
				} else if n > 0 {
					r.logger.Info("expired files purged", "count", n)
				}
			}
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-done
		r.logger.Info("file sweeper stopped")
	})

	r.logger.Info("file sweeper started", "interval", interval)
	return nil
}

func (r *repo) Upload(ctx context.Context, cmd UploadCommand) (*File, error) {
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidFile)
	}
	if int64(len(cmd.Data)) > r.cfg.MaxSizeBytes() {
		return nil, ErrFileTooLarge
	}

	ext, err := Extension(cmd.Filename, r.cfg.AllowedExtensions)
	if err != nil {
		return nil, err
	}

	exists, err := repository.Exists(ctx, r.db, "SELECT 1 FROM queries WHERE id = $1", cmd.QueryID)
	if err != nil {
		return nil, fmt.Errorf("check query: %w", err)
	}
	if !exists {
		return nil, ErrQueryNotFound
	}

	sum := sha256.Sum256(cmd.Data)
	hash := hex.EncodeToString(sum[:])
	stored := hash + ext
	fileType := DetectType(cmd.ContentType, cmd.Data)
	summary := Summarize(r.logger, fileType, cmd.Data)

	id := uuid.New()
	key := storageKey(cmd.QueryID, id, stored)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), fileType); err != nil {
		return nil, fmt.Errorf("upload file blob: %w", err)
	}

	q := `
		INSERT INTO files(id, query_id, original_filename, stored_filename, file_type,
			file_size, file_hash, summary, expiry_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)` + returning

	args := []any{
		id,
		cmd.QueryID,
		cmd.Filename,
		stored,
		fileType,
		int64(len(cmd.Data)),
		hash,
		summary,
		r.now().Add(r.cfg.ExpiryDuration()),
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, args, scanFile)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapReference(err, ErrNotFound, ErrDuplicate, ErrQueryNotFound)
	}

	r.logger.Info("file uploaded", "id", f.ID, "query_id", f.QueryID, "type", f.FileType, "size", f.FileSize)
	return &f, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*File, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) ListByQuery(ctx context.Context, queryID uuid.UUID) ([]File, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("QueryID", queryID).
		Build()

	files, err := repository.QueryMany(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	if files == nil {
		files = []File{}
	}
	return files, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*File, *storage.Object, error) {
	f, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.Expired(r.now()) {
		return nil, nil, ErrExpired
	}

	obj, err := r.storage.Download(ctx, f.key())
	if err != nil {
		return nil, nil, err
	}
	return f, obj, nil
}

func (r *repo) Summaries(ctx context.Context, queryID uuid.UUID) ([]string, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("QueryID", queryID).
		WhereAfter("ExpiryTime", r.now()).
		Build()

	files, err := repository.QueryMany(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query file summaries: %w", err)
	}

	summaries := make([]string, len(files))
	for i, f := range files {
		summaries[i] = f.Summary
	}
	return summaries, nil
}

func (r *repo) Purge(ctx context.Context) (int, error) {
	q := "DELETE FROM files WHERE expiry_time <= $1" + returning

	expired, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]File, error) {
		return repository.QueryMany(ctx, tx, q, []any{r.now()}, scanFile)
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired files: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(purgeConcurrency)
	for _, f := range expired {
		g.Go(func() error {
			err := r.storage.Delete(gctx, f.key())
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				r.logger.Warn("expired blob delete failed", "key", f.key(), "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return len(expired), fmt.Errorf("delete expired blobs: %w", err)
	}

	return len(expired), nil
}
