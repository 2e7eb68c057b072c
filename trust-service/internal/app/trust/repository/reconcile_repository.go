package repository

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// Счетчики отзыва пересчитываются из журнала, строки без расхождений не трогаются
	recountAggregatesFrom = `
		WITH counts AS (
			SELECT a.subject_id,
			       COUNT(v.voter_id) FILTER (WHERE v.direction = 'up')   AS up,
			       COUNT(v.voter_id) FILTER (WHERE v.direction = 'down') AS down
			FROM review_aggregates a
			LEFT JOIN votes v ON v.subject_id = a.subject_id
			%s
			GROUP BY a.subject_id
		)
		UPDATE review_aggregates a
		SET upvotes = c.up, downvotes = c.down, net_score = c.up - c.down, updated_at = NOW()
		FROM counts c
		WHERE a.subject_id = c.subject_id
		  AND (a.upvotes <> c.up OR a.downvotes <> c.down OR a.net_score <> c.up - c.down)
	`

	// Сумма upvotes по всем отзывам автора
	recountAuthorsFrom = `
		WITH totals AS (
			SELECT s.author_id, COALESCE(SUM(a.upvotes), 0) AS total
			FROM author_stats s
			LEFT JOIN review_aggregates a ON a.author_id = s.author_id
			%s
			GROUP BY s.author_id
		)
		UPDATE author_stats s
		SET total_upvotes_received = t.total, updated_at = NOW()
		FROM totals t
		WHERE s.author_id = t.author_id AND s.total_upvotes_received <> t.total
	`
)

var (
	recountAggregateQuery     = fmt.Sprintf(recountAggregatesFrom, "WHERE a.subject_id = $1")
	recountAllAggregatesQuery = fmt.Sprintf(recountAggregatesFrom, "")
	recountAuthorQuery        = fmt.Sprintf(recountAuthorsFrom, "WHERE s.author_id = $1")
	recountAllAuthorsQuery    = fmt.Sprintf(recountAuthorsFrom, "") + " RETURNING s.author_id"
)

// pgExecutor подмножество pgxpool.Pool, которое нужно для сверки
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// reconcileRepository выполняет массовые пересчеты через пул pgx,
// минуя ORM: каждый пересчет это один UPDATE по всей таблице.
type reconcileRepository struct {
	db pgExecutor
}

// NewReconcileRepository принимает *pgxpool.Pool
func NewReconcileRepository(db pgExecutor) ReconcileRepository {
	return &reconcileRepository{db: db}
}

func (r *reconcileRepository) RecountAggregate(ctx context.Context, subjectID string) (int64, error) {
	return r.exec(ctx, tableAggregates, "aggregate", recountAggregateQuery, subjectID)
}

func (r *reconcileRepository) RecountAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.exec(ctx, tableAuthorStats, "author", recountAuthorQuery, authorID)
}

func (r *reconcileRepository) RecountAllAggregates(ctx context.Context) (int64, error) {
	return r.exec(ctx, tableAggregates, "aggregates", recountAllAggregatesQuery)
}

// RecountAllAuthors возвращает id исправленных авторов, чтобы после пересчета
// можно было заново проверить их бейджи
func (r *reconcileRepository) RecountAllAuthors(ctx context.Context) ([]string, error) {
	done := observeDb(metrics.DbOpUpdate, tableAuthorStats)

	rows, err := r.db.Query(ctx, recountAllAuthorsQuery)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to recount authors: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to recount authors: %w", err)
	}
	return ids, nil
}

func (r *reconcileRepository) exec(ctx context.Context, table, what, query string, args ...any) (int64, error) {
	done := observeDb(metrics.DbOpUpdate, table)
	tag, err := r.db.Exec(ctx, query, args...)
	done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to recount %s: %w", what, err)
	}
	return tag.RowsAffected(), nil
}
