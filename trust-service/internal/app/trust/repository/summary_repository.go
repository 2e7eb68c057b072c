package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/redis/go-redis/v9"
)

func summaryKey(restaurantID string) string {
	return "summary:" + restaurantID
}

// summaryRepository сводки живут без TTL, актуальность определяется числом отзывов
type summaryRepository struct {
	client *redis.Client
}

func NewSummaryRepository(client *redis.Client) SummaryRepository {
	return &summaryRepository{client: client}
}

func (r *summaryRepository) Get(ctx context.Context, restaurantID string) (*entity.RestaurantSummary, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, summaryKey(restaurantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSummaryNotFound
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get summary from redis: %w", err)
	}

	var summary entity.RestaurantSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &summary, nil
}

func (r *summaryRepository) Save(ctx context.Context, summary *entity.RestaurantSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, summaryKey(summary.RestaurantID), data, 0).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set summary in redis: %w", err)
	}
	return nil
}
