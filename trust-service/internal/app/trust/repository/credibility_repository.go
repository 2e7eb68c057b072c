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

const credibilityKeyPrefix = "credibility:"

func credibilityKey(reviewID string) string {
	return credibilityKeyPrefix + reviewID
}

// credibilityRepository хранит оценки достоверности без TTL.
// Запись пишется через SETNX: первая победившая запись остается навсегда.
type credibilityRepository struct {
	client *redis.Client
}

func NewCredibilityRepository(client *redis.Client) CredibilityRepository {
	return &credibilityRepository{client: client}
}

func (r *credibilityRepository) Get(ctx context.Context, reviewID string) (*entity.CredibilityRecord, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, credibilityKey(reviewID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCredibilityNotFound
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get credibility from redis: %w", err)
	}

	var record entity.CredibilityRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credibility: %w", err)
	}
	return &record, nil
}

// GetMany получает записи батчем, отсутствующие пропускаются
func (r *credibilityRepository) GetMany(ctx context.Context, reviewIDs []string) (map[string]entity.CredibilityRecord, error) {
	result := make(map[string]entity.CredibilityRecord, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpMGet)
	defer timer.ObserveDuration()

	pipe := r.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(reviewIDs))
	for _, id := range reviewIDs {
		cmds[id] = pipe.Get(ctx, credibilityKey(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		metrics.RecordRedisError(serviceName, metrics.RedisOpMGet)
		return nil, fmt.Errorf("failed to get credibility records: %w", err)
	}

	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get credibility for %s: %w", id, err)
		}

		var record entity.CredibilityRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal credibility for %s: %w", id, err)
		}
		result[id] = record
	}

	return result, nil
}

func (r *credibilityRepository) SaveIfAbsent(ctx context.Context, reviewID string, record *entity.CredibilityRecord) (*entity.CredibilityRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credibility: %w", err)
	}

	key := credibilityKey(reviewID)
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSetNX)
	stored, err := r.client.SetNX(ctx, key, data, 0).Result()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSetNX)
		return nil, fmt.Errorf("failed to save credibility in redis: %w", err)
	}

	if stored {
		saved := *record
		return &saved, nil
	}

	// ключ уже занят другим писателем, возвращаем его значение
	return r.Get(ctx, reviewID)
}
