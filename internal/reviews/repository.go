package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/caregate/internal/queries"
	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/internal/stages"
	"github.com/JaimeStill/caregate/pkg/pagination"
	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
)

type repo struct {
	db          *sql.DB
	queries     QuerySource
	attachments AttachmentSource
	stages      stages.System
	logger      *slog.Logger
	pagination  pagination.Config
}

// New creates a review repository implementing the System interface.
func New(
	db *sql.DB,
	queries QuerySource,
	attachments AttachmentSource,
	stages stages.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:          db,
		queries:     queries,
		attachments: attachments,
		stages:      stages,
		logger:      logger.With("system", "reviews"),
		pagination:  pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Generate(ctx context.Context, queryID uuid.UUID, role roles.Role) (*Review, error) {
	if err := roles.Authorize(role, roles.GenerateReview); err != nil {
		return nil, err
	}

	q, err := r.queries.Find(ctx, queryID)
	if err != nil {
		return nil, err
	}
	if _, err := queries.AfterGeneration(q.Status); err != nil {
		return nil, err
	}

	var (
		summaries []string
		history   []stages.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = r.attachments.Summaries(gctx, queryID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = r.history(gctx, queryID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load review context: %w", err)
	}

	outcome := r.stages.Respond(ctx, q.PromptText(), summaries, history)

	insert := `
		INSERT INTO responses(query_id, response_text)
		VALUES ($1, $2)
		RETURNING ` + responseColumns

	review, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		current, err := queries.Lock(ctx, tx, queryID)
		if err != nil {
			return Review{}, err
		}

		next, err := queries.AfterGeneration(current)
		if err != nil {
			return Review{}, err
		}

		resp, err := repository.QueryOne(ctx, tx, insert, []any{queryID, outcome.Value}, scanResponse)
		if err != nil {
			return Review{}, err
		}

		if err := queries.SetStatus(ctx, tx, queryID, next); err != nil {
			return Review{}, err
		}

		return newReview(resp, q.QueryText, next), nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(
		ctx, "response generated",
		"id", review.ID,
		"query_id", queryID,
		"attachments", len(summaries),
		"history", len(history),
		"degraded", outcome.Degraded,
	)
	return &review, nil
}

func (r *repo) Pending(
	ctx context.Context,
	page pagination.PageRequest,
	role roles.Role,
) (*pagination.PageResult[Review], error) {
	if err := roles.Authorize(role, roles.ListPending); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(pending, pendingSort...).
		WhereEquals("Status", queries.StatusNeedsReview).
		WhereSearch(page.Search, "QueryText", "ResponseText")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count pending reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	reviews, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query pending reviews: %w", err)
	}

	result := pagination.NewPageResult(reviews, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Decide(
	ctx context.Context,
	responseID uuid.UUID,
	cmd DecideCommand,
	role roles.Role,
) (*Review, error) {
	if err := roles.Authorize(role, roles.DecideReview); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	approve := *cmd.IsApproved

	update := `
		UPDATE responses
		SET is_approved = $1, doctor_notes = $2, updated_at = now()
		WHERE id = $3
		RETURNING ` + responseColumns

	review, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Review, error) {
		var queryID uuid.UUID
		err := tx.QueryRowContext(
			ctx,
			"SELECT query_id FROM responses WHERE id = $1",
			responseID,
		).Scan(&queryID)
		if err != nil {
			return Review{}, err
		}

		if _, err := queries.Lock(ctx, tx, queryID); err != nil {
			return Review{}, err
		}

		if _, err := tx.ExecContext(ctx, "SELECT 1 FROM responses WHERE id = $1 FOR UPDATE", responseID); err != nil {
			return Review{}, fmt.Errorf("lock response: %w", err)
		}

		resp, err := repository.QueryOne(ctx, tx, update, []any{approve, cmd.DoctorNotes, responseID}, scanResponse)
		if err != nil {
			return Review{}, err
		}

		next := queries.AfterDecision(approve)
		if err := queries.SetStatus(ctx, tx, queryID, next); err != nil {
			return Review{}, err
		}

		var queryText string
		if err := tx.QueryRowContext(ctx, "SELECT query_text FROM queries WHERE id = $1", queryID).Scan(&queryText); err != nil {
			return Review{}, err
		}

		return newReview(resp, queryText, next), nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review decided", "id", review.ID, "query_id", review.QueryID, "approved", approve, "status", review.Status)
	return &review, nil
}

func (r *repo) Latest(ctx context.Context, queryID uuid.UUID, role roles.Role) (*Review, error) {
	if err := roles.Authorize(role, roles.LatestReview); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(pending).
		WhereEquals("QueryID", queryID).
		Build()

	review, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &review, nil
}

// history replays prior responses for a query as assistant turns, oldest first.
func (r *repo) history(ctx context.Context, queryID uuid.UUID) ([]stages.Message, error) {
	q := `
		SELECT ` + responseColumns + `
		FROM responses
		WHERE query_id = $1
		ORDER BY created_at, seq`

	prior, err := repository.QueryMany(ctx, r.db, q, []any{queryID}, scanResponse)
	if err != nil {
		return nil, fmt.Errorf("query response history: %w", err)
	}

	history := make([]stages.Message, 0, len(prior))
	for _, resp := range prior {
		history = append(history, stages.Message{Role: stages.RoleAssistant, Content: resp.ResponseText})
	}
	return history, nil
}
