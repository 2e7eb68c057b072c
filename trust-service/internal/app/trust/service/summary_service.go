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
)

const reasonNotEnoughReviews = "not_enough_reviews"

// SummaryService сводки отзывов ресторана. Кеш инвалидируется по числу отзывов.
type SummaryService struct {
	reviewRepo  repository.ReviewRepository
	summaryRepo repository.SummaryRepository
	summarizer  infrastructure.Summarizer
	timeout     time.Duration
	now         func() time.Time
}

func NewSummaryService(
	reviewRepo repository.ReviewRepository,
	summaryRepo repository.SummaryRepository,
	summarizer infrastructure.Summarizer,
	timeout time.Duration,
) *SummaryService {
	return &SummaryService{
		reviewRepo:  reviewRepo,
		summaryRepo: summaryRepo,
		summarizer:  summarizer,
		timeout:     timeout,
		now:         time.Now,
	}
}

// GetSummary сводка для ответа API: null с причиной если отзывов мало
func (s *SummaryService) GetSummary(ctx context.Context, restaurantID string, force bool) (*entity.SummaryResponse, error) {
	reviews, err := s.reviewRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	summary, err := s.Summarize(ctx, restaurantID, reviews, force)
	if err != nil {
		return nil, err
	}

	if summary == nil {
		return &entity.SummaryResponse{Reason: reasonNotEnoughReviews}, nil
	}
	return &entity.SummaryResponse{Summary: summary}, nil
}

// Summarize возвращает сводку по текущему набору отзывов.
// Меньше двух отзывов: nil без ошибки. Кеш отдается если число отзывов не изменилось
// и обновление не запрошено явно.
func (s *SummaryService) Summarize(ctx context.Context, restaurantID string, reviews []entity.Review, force bool) (*entity.RestaurantSummary, error) {
	if len(reviews) < scoring.MinReviewsForSummary {
		return nil, nil
	}

	if !force {
		cached, err := s.summaryRepo.Get(ctx, restaurantID)
		switch {
		case err == nil:
			if !scoring.IsStale(cached, len(reviews)) {
				metrics.RecordCacheHit(serviceName, "summary")
				return cached, nil
			}
		case errors.Is(err, repository.ErrSummaryNotFound):
		default:
			// кеш недоступен, пробуем сгенерировать заново
			logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to read cached summary")
		}
		metrics.RecordCacheMiss(serviceName, "summary")
	}

	text, err := s.generate(ctx, reviews)
	if err != nil {
		metrics.RecordSummaryGeneration(false)
		logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Summary generation failed")
		return nil, fmt.Errorf("%w: %v", ErrSummaryUnavailable, err)
	}
	metrics.RecordSummaryGeneration(true)

	summary := &entity.RestaurantSummary{
		RestaurantID:            restaurantID,
		SummaryText:             text,
		ReviewCountAtGeneration: len(reviews),
		GeneratedAt:             s.now(),
	}

	if err := s.summaryRepo.Save(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	return summary, nil
}

func (s *SummaryService) generate(ctx context.Context, reviews []entity.Review) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	corpus := scoring.SummaryCorpus(scoring.SummaryInput(reviews))
	return s.summarizer.Summarize(ctx, len(reviews), corpus)
}
