package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"worththehype/pkg/logger"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/infrastructure"
	"worththehype/trust-service/internal/app/trust/repository"
)

const (
	minReviewTextLength = 10
	maxRating           = 10
)

// ReviewService регистрация и чтение отзывов.
// Координирует MongoDB, счетчики голосов, статистику автора и Kafka.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	aggregateRepo repository.AggregateRepository
	pendingRepo   repository.PendingRepository
	authors       *AuthorService
	events        *eventPublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	aggregateRepo repository.AggregateRepository,
	pendingRepo repository.PendingRepository,
	authors *AuthorService,
	producer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		aggregateRepo: aggregateRepo,
		pendingRepo:   pendingRepo,
		authors:       authors,
		events:        newEventPublisher(producer),
	}
}

// CreateReview регистрирует отзыв
// 1. Сохраняет отзыв в MongoDB
// 2. Создает нулевые счетчики голосов
// 3. Увеличивает review_count автора и проверяет бейджи.
// При сбое автор ставится в очередь сверки, review_count пересчитается по MongoDB.
// 4. Отправляет REVIEW_CREATED в Kafka (по нему считается достоверность)
func (s *ReviewService) CreateReview(ctx context.Context, user *entity.CurrentUser, req *entity.CreateReviewRequest) (*entity.Review, []entity.Badge, error) {
	if err := validateReview(req); err != nil {
		return nil, nil, err
	}

	review := &entity.Review{
		RestaurantID:   req.RestaurantID,
		AuthorID:       user.ID,
		AuthorName:     user.DisplayName,
		AccountCreated: user.AccountCreated,
		HypeRating:     *req.HypeRating,
		RealityRating:  *req.RealityRating,
		Text:           strings.TrimSpace(req.Text),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, nil, fmt.Errorf("failed to create review: %w", err)
	}
	reviewID := review.ID.Hex()

	if err := s.aggregateRepo.Ensure(ctx, &entity.ReviewAggregate{
		SubjectID:    reviewID,
		RestaurantID: review.RestaurantID,
		AuthorID:     review.AuthorID,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to create review aggregate: %w", err)
	}

	badges, err := s.authors.RecordNewReview(ctx, review.AuthorID)
	if err != nil {
		// отзыв уже сохранен, повторный вызов исказил бы review_count
		logger.Error().Err(err).Str("review_id", reviewID).Str("author_id", review.AuthorID).Msg("Failed to record new review for author")
		if err := s.pendingRepo.AddAuthor(ctx, review.AuthorID); err != nil {
			logger.Error().Err(err).Str("author_id", review.AuthorID).Msg("Failed to mark author for reconcile")
		}
	}

	s.events.publish(ctx, reviewID, entity.TrustEvent{
		EventType:    entity.EventReviewCreated,
		ReviewID:     reviewID,
		RestaurantID: review.RestaurantID,
		AuthorID:     review.AuthorID,
		Text:         review.Text,
	})

	return review, badges, nil
}

// GetReviewsByRestaurant отзывы ресторана, новые первыми
func (s *ReviewService) GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func validateReview(req *entity.CreateReviewRequest) error {
	if strings.TrimSpace(req.RestaurantID) == "" {
		return fmt.Errorf("%w: restaurant_id is required", ErrInvalidReview)
	}
	if req.HypeRating == nil || *req.HypeRating < 0 || *req.HypeRating > maxRating {
		return fmt.Errorf("%w: hype_rating must be between 0 and %d", ErrInvalidReview, maxRating)
	}
	if req.RealityRating == nil || *req.RealityRating < 0 || *req.RealityRating > maxRating {
		return fmt.Errorf("%w: reality_rating must be between 0 and %d", ErrInvalidReview, maxRating)
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Text)) < minReviewTextLength {
		return fmt.Errorf("%w: text must be at least %d characters", ErrInvalidReview, minReviewTextLength)
	}
	return nil
}
