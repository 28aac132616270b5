package queries

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/caregate/internal/roles"
	"github.com/JaimeStill/caregate/pkg/pagination"
	"github.com/JaimeStill/caregate/pkg/query"
	"github.com/JaimeStill/caregate/pkg/repository"
)

type repo struct {
	db         *sql.DB
	engine     *Engine
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a query repository implementing the System interface.
func New(
	db *sql.DB,
	engine *Engine,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "queries"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Submit(ctx context.Context, cmd CreateCommand) (*Query, error) {
	text := strings.TrimSpace(cmd.QueryText)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	insert := `
		INSERT INTO queries(query_text, user_id, status)
		VALUES ($1, $2, $3)` + returning

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Query, error) {
		return repository.QueryOne(ctx, tx, insert, []any{text, cmd.UserID, StatusPending}, scanQuery)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.InfoContext(ctx, "query submitted", "id", created.ID)

	// The record must leave pending even if the caller goes away mid-evaluation.
	ctx = context.WithoutCancel(ctx)
	eval := r.engine.Evaluate(ctx, created.QueryText)

	update := `
		UPDATE queries
		SET enhanced_query = COALESCE(enhanced_query, $1),
			safety_score = $2,
			triage_level = $3,
			status = $4,
			updated_at = now()
		WHERE id = $5 AND status = $6` + returning

	args := []any{eval.Enhanced, eval.Score, eval.Triage, eval.Status, created.ID, StatusPending}

	q, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Query, error) {
		return repository.QueryOne(ctx, tx, update, args, scanQuery)
	})
	if err != nil {
		return nil, fmt.Errorf("record evaluation: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	r.logger.InfoContext(
		ctx, "query evaluated",
		"id", q.ID,
		"score", eval.Score,
		"triage", eval.Triage,
		"status", eval.Status,
		"degraded", eval.Degraded,
	)
	return &q, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Query, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	result, err := repository.QueryOne(ctx, r.db, q, args, scanQuery)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &result, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
	role roles.Role,
) (*pagination.PageResult[Query], error) {
	if err := roles.Authorize(role, roles.ListQueries); err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)
	return r.page(ctx, qb, page)
}

func (r *repo) ListTriaged(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
	role roles.Role,
) (*pagination.PageResult[Query], error) {
	if err := roles.Authorize(role, roles.ListTriaged); err != nil {
		return nil, err
	}

	qb := query.NewBuilder(projection, defaultSort).WhereNotNull("TriageLevel")
	filters.Apply(qb)
	return r.page(ctx, qb, page)
}

func (r *repo) ListUrgent(
	ctx context.Context,
	page pagination.PageRequest,
	role roles.Role,
) (*pagination.PageResult[Query], error) {
	if err := roles.Authorize(role, roles.ListUrgent); err != nil {
		return nil, err
	}

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("TriageLevel", TriageUrgent)
	return r.page(ctx, qb, page)
}

func (r *repo) UpdateTriage(ctx context.Context, id uuid.UUID, level Triage, role roles.Role) (*Query, error) {
	if err := roles.Authorize(role, roles.UpdateTriage); err != nil {
		return nil, err
	}
	if _, err := ParseTriage(string(level)); err != nil {
		return nil, err
	}

	update := `
		UPDATE queries
		SET triage_level = $1, status = $2, updated_at = now()
		WHERE id = $3` + returning

	q, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Query, error) {
		current, err := Lock(ctx, tx, id)
		if err != nil {
			return Query{}, err
		}

		next := AfterTriageUpdate(current, level)
		return repository.QueryOne(ctx, tx, update, []any{level, next, id}, scanQuery)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("triage updated", "id", q.ID, "triage", level, "status", q.Status, "role", role)
	return &q, nil
}

func (r *repo) page(
	ctx context.Context,
	qb *query.Builder,
	page pagination.PageRequest,
) (*pagination.PageResult[Query], error) {
	page.Normalize(r.pagination)

	qb.WhereSearch(page.Search, "QueryText", "EnhancedQuery")
	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count queries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanQuery)
	if err != nil {
		return nil, fmt.Errorf("query queries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
