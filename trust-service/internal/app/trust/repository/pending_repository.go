package repository

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	pendingReconcileKey = "reconcile:pending"
	pendingAuthorsKey   = "reconcile:pending:authors"
)

type pendingRepository struct {
	client *redis.Client
}

func NewPendingRepository(client *redis.Client) PendingRepository {
	return &pendingRepository{client: client}
}

func (r *pendingRepository) Add(ctx context.Context, subjectID string) error {
	if err := r.add(ctx, pendingReconcileKey, subjectID); err != nil {
		return fmt.Errorf("failed to mark %s for reconcile: %w", subjectID, err)
	}
	return nil
}

// Pop забирает до count отзывов из множества
func (r *pendingRepository) Pop(ctx context.Context, count int64) ([]string, error) {
	ids, err := r.pop(ctx, pendingReconcileKey, count)
	if err != nil {
		return nil, fmt.Errorf("failed to pop pending reconcile: %w", err)
	}
	return ids, nil
}

func (r *pendingRepository) AddAuthor(ctx context.Context, authorID string) error {
	if err := r.add(ctx, pendingAuthorsKey, authorID); err != nil {
		return fmt.Errorf("failed to mark author %s for reconcile: %w", authorID, err)
	}
	return nil
}

func (r *pendingRepository) PopAuthors(ctx context.Context, count int64) ([]string, error) {
	ids, err := r.pop(ctx, pendingAuthorsKey, count)
	if err != nil {
		return nil, fmt.Errorf("failed to pop pending authors: %w", err)
	}
	return ids, nil
}

func (r *pendingRepository) Size(ctx context.Context) (int64, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSCard)
	defer timer.ObserveDuration()

	pipe := r.client.Pipeline()
	reviews := pipe.SCard(ctx, pendingReconcileKey)
	authors := pipe.SCard(ctx, pendingAuthorsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSCard)
		return 0, fmt.Errorf("failed to count pending reconcile: %w", err)
	}
	return reviews.Val() + authors.Val(), nil
}

func (r *pendingRepository) add(ctx context.Context, key, member string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSAdd)
	defer timer.ObserveDuration()

	if err := r.client.SAdd(ctx, key, member).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSAdd)
		return err
	}
	return nil
}

func (r *pendingRepository) pop(ctx context.Context, key string, count int64) ([]string, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSPop)
	defer timer.ObserveDuration()

	ids, err := r.client.SPopN(ctx, key, count).Result()
	if err != nil && err != redis.Nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSPop)
		return nil, err
	}
	return ids, nil
}
