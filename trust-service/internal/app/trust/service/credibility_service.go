package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/infrastructure"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/scoring"

	"golang.org/x/sync/singleflight"
)

const serviceName = "trust-service"

// CredibilityService кеш оценок достоверности отзывов.
// Запись вычисляется один раз и больше не меняется, неудачный анализ тоже кешируется.
type CredibilityService struct {
	repo     repository.CredibilityRepository
	analyzer infrastructure.TextAnalyzer
	timeout  time.Duration

	// одновременные промахи по одному отзыву вызывают анализатор один раз
	inflight singleflight.Group
}

func NewCredibilityService(
	repo repository.CredibilityRepository,
	analyzer infrastructure.TextAnalyzer,
	timeout time.Duration,
) *CredibilityService {
	return &CredibilityService{
		repo:     repo,
		analyzer: analyzer,
		timeout:  timeout,
	}
}

// GetOrCompute возвращает сохраненную запись или анализирует текст и сохраняет результат.
// Ошибка возвращается только при сбое хранилища.
func (s *CredibilityService) GetOrCompute(ctx context.Context, reviewID, text string) (*entity.CredibilityRecord, error) {
	record, err := s.repo.Get(ctx, reviewID)
	if err == nil {
		metrics.RecordCacheHit(serviceName, "credibility")
		return record, nil
	}
	if !errors.Is(err, repository.ErrCredibilityNotFound) {
		return nil, fmt.Errorf("failed to read credibility: %w", err)
	}
	metrics.RecordCacheMiss(serviceName, "credibility")

	v, err, _ := s.inflight.Do(reviewID, func() (any, error) {
		// вычисление не должно обрываться вместе с запросом первого вызвавшего
		return s.compute(context.WithoutCancel(ctx), reviewID, text)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.CredibilityRecord), nil
}

// Lookup уже посчитанные записи для набора отзывов. Модель не вызывается:
// отзывы без записи получают вес по умолчанию, запись посчитает consumer.
func (s *CredibilityService) Lookup(ctx context.Context, reviewIDs []string) (map[string]entity.CredibilityRecord, error) {
	records, err := s.repo.GetMany(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read credibility records: %w", err)
	}

	for _, id := range reviewIDs {
		if _, ok := records[id]; ok {
			metrics.RecordCacheHit(serviceName, "credibility")
		} else {
			metrics.RecordCacheMiss(serviceName, "credibility")
		}
	}
	return records, nil
}

func (s *CredibilityService) compute(ctx context.Context, reviewID, text string) (*entity.CredibilityRecord, error) {
	record, fallback := s.analyze(ctx, reviewID, text)
	metrics.RecordCredibility(string(record.Tag), fallback)

	stored, err := s.repo.SaveIfAbsent(ctx, reviewID, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to save credibility: %w", err)
	}
	return stored, nil
}

// analyze вызывает модель с таймаутом. Любой сбой дает запись-заглушку.
func (s *CredibilityService) analyze(ctx context.Context, reviewID, text string) (entity.CredibilityRecord, bool) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.analyzer.AnalyzeCredibility(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Str("review_id", reviewID).Msg("Credibility analysis failed, using fallback")
		return scoring.FallbackCredibility(), true
	}

	record, err := scoring.ParseCredibility(raw)
	if err != nil {
		logger.Warn().Err(err).Str("review_id", reviewID).Msg("Unparsable credibility analysis, using fallback")
		return scoring.FallbackCredibility(), true
	}

	return record, false
}
