package repository

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"

	"gorm.io/gorm"
)

const (
	authorStatsColumns = `author_id, review_count, total_upvotes_received, updated_at`
	selectAuthorStats  = `SELECT ` + authorStatsColumns + ` FROM author_stats WHERE author_id = ?`

	// Upvotes никогда не уходят ниже нуля, строка создается при первой записи
	upsertAuthorUpvotes = `INSERT INTO author_stats (author_id, review_count, total_upvotes_received, updated_at) ` +
		`VALUES (?, 0, GREATEST(?, 0), NOW()) ` +
		`ON CONFLICT (author_id) DO UPDATE SET ` +
		`total_upvotes_received = GREATEST(author_stats.total_upvotes_received + ?, 0), updated_at = NOW() ` +
		`RETURNING ` + authorStatsColumns

	upsertReviewCount = `INSERT INTO author_stats (author_id, review_count, total_upvotes_received, updated_at) ` +
		`VALUES (?, 1, 0, NOW()) ` +
		`ON CONFLICT (author_id) DO UPDATE SET ` +
		`review_count = author_stats.review_count + 1, updated_at = NOW() ` +
		`RETURNING ` + authorStatsColumns

	// Значение посчитано по MongoDB и заменяет счетчик целиком
	upsertSetReviewCount = `INSERT INTO author_stats (author_id, review_count, total_upvotes_received, updated_at) ` +
		`VALUES (?, ?, 0, NOW()) ` +
		`ON CONFLICT (author_id) DO UPDATE SET ` +
		`review_count = EXCLUDED.review_count, updated_at = NOW() ` +
		`RETURNING ` + authorStatsColumns

	selectAuthorBadges = `SELECT author_id, badge_id, earned_at FROM author_badges WHERE author_id = ? ORDER BY earned_at, badge_id`
	insertAuthorBadge  = `INSERT INTO author_badges (author_id, badge_id, earned_at) VALUES (?, ?, NOW()) ON CONFLICT (author_id, badge_id) DO NOTHING`
)

type authorStatsRepository struct {
	db *gorm.DB
}

func NewAuthorStatsRepository(db *gorm.DB) AuthorStatsRepository {
	return &authorStatsRepository{db: db}
}

// Get возвращает нулевую статистику для автора без записей
func (r *authorStatsRepository) Get(ctx context.Context, authorID string) (*entity.AuthorStats, error) {
	var rows []entity.AuthorStats
	done := observeDb(metrics.DbOpSelect, tableAuthorStats)
	err := r.db.WithContext(ctx).Raw(selectAuthorStats, authorID).Scan(&rows).Error
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get author stats: %w", err)
	}

	if len(rows) == 0 {
		return &entity.AuthorStats{AuthorID: authorID}, nil
	}
	return &rows[0], nil
}

func (r *authorStatsRepository) AdjustUpvotes(ctx context.Context, authorID string, delta int64) (*entity.AuthorStats, error) {
	stats, err := r.upsert(ctx, metrics.DbOpUpdate, upsertAuthorUpvotes, authorID, delta, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust author upvotes: %w", err)
	}
	return stats, nil
}

// RecordNewReview увеличивает review_count ровно на единицу. Не идемпотентна.
func (r *authorStatsRepository) RecordNewReview(ctx context.Context, authorID string) (*entity.AuthorStats, error) {
	stats, err := r.upsert(ctx, metrics.DbOpInsert, upsertReviewCount, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to record new review: %w", err)
	}
	return stats, nil
}

// SetReviewCount идемпотентна, в отличие от RecordNewReview
func (r *authorStatsRepository) SetReviewCount(ctx context.Context, authorID string, count int64) (*entity.AuthorStats, error) {
	stats, err := r.upsert(ctx, metrics.DbOpUpdate, upsertSetReviewCount, authorID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to set review count: %w", err)
	}
	return stats, nil
}

func (r *authorStatsRepository) upsert(ctx context.Context, op metrics.DbOperation, query string, args ...any) (*entity.AuthorStats, error) {
	var rows []entity.AuthorStats
	done := observeDb(op, tableAuthorStats)
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	done(err)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no row returned")
	}
	return &rows[0], nil
}

func (r *authorStatsRepository) GetBadges(ctx context.Context, authorID string) ([]entity.AuthorBadge, error) {
	var badges []entity.AuthorBadge
	done := observeDb(metrics.DbOpSelect, tableAuthorBadges)
	err := r.db.WithContext(ctx).Raw(selectAuthorBadges, authorID).Scan(&badges).Error
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get author badges: %w", err)
	}
	return badges, nil
}

// SaveBadges добавляет бейджи к уже сохраненным. Существующие не трогаются.
func (r *authorStatsRepository) SaveBadges(ctx context.Context, authorID string, ids []entity.BadgeID) error {
	if len(ids) == 0 {
		return nil
	}

	done := observeDb(metrics.DbOpInsert, tableAuthorBadges)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := tx.Exec(insertAuthorBadge, authorID, string(id)).Error; err != nil {
				return fmt.Errorf("failed to save badge %s: %w", id, err)
			}
		}
		return nil
	})
	done(err)
	return err
}
