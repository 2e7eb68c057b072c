package repository

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/scoring"

	"gorm.io/gorm"
)

const (
	aggregateColumns         = `subject_id, restaurant_id, author_id, upvotes, downvotes, net_score, updated_at`
	selectAggregate          = `SELECT ` + aggregateColumns + ` FROM review_aggregates WHERE subject_id = ?`
	selectAggregateForUpdate = selectAggregate + ` FOR UPDATE`
	updateAggregateCounters  = `UPDATE review_aggregates SET upvotes = ?, downvotes = ?, net_score = ?, updated_at = NOW() WHERE subject_id = ?`
	insertAggregate          = `INSERT INTO review_aggregates (subject_id, restaurant_id, author_id, upvotes, downvotes, net_score, updated_at) ` +
		`VALUES (?, ?, ?, 0, 0, 0, NOW()) ON CONFLICT (subject_id) DO NOTHING`
)

type aggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{db: db}
}

func (r *aggregateRepository) Get(ctx context.Context, subjectID string) (*entity.ReviewAggregate, error) {
	var rows []entity.ReviewAggregate
	done := observeDb(metrics.DbOpSelect, tableAggregates)
	err := r.db.WithContext(ctx).Raw(selectAggregate, subjectID).Scan(&rows).Error
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrAggregateNotFound
	}
	return &rows[0], nil
}

// Ensure создает нулевые счетчики для нового отзыва. Повторный вызов ничего не меняет.
func (r *aggregateRepository) Ensure(ctx context.Context, agg *entity.ReviewAggregate) error {
	done := observeDb(metrics.DbOpInsert, tableAggregates)
	result := r.db.WithContext(ctx).Exec(insertAggregate, agg.SubjectID, agg.RestaurantID, agg.AuthorID)
	done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to create aggregate: %w", result.Error)
	}
	return nil
}

// ApplyDelta атомарно применяет изменение счетчиков: строка блокируется,
// новые значения считаются из заблокированной версии.
func (r *aggregateRepository) ApplyDelta(ctx context.Context, subjectID string, delta entity.VoteDelta) (*entity.ReviewAggregate, error) {
	var updated entity.ReviewAggregate

	done := observeDb(metrics.DbOpUpdate, tableAggregates)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []entity.ReviewAggregate
		if err := tx.Raw(selectAggregateForUpdate, subjectID).Scan(&rows).Error; err != nil {
			return fmt.Errorf("failed to lock aggregate: %w", err)
		}
		if len(rows) == 0 {
			return ErrAggregateNotFound
		}

		updated = scoring.ApplyDelta(rows[0], delta)

		if err := tx.Exec(updateAggregateCounters, updated.Upvotes, updated.Downvotes, updated.NetScore, subjectID).Error; err != nil {
			return fmt.Errorf("failed to update aggregate: %w", err)
		}
		return nil
	})
	done(err)

	if err != nil {
		return nil, err
	}
	return &updated, nil
}
