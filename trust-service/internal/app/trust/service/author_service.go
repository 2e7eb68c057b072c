package service

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/infrastructure"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/scoring"
)

// AuthorService статистика авторов и выдача бейджей
type AuthorService struct {
	statsRepo repository.AuthorStatsRepository
	events    *eventPublisher
}

func NewAuthorService(statsRepo repository.AuthorStatsRepository, producer infrastructure.MessagePublisher) *AuthorService {
	return &AuthorService{
		statsRepo: statsRepo,
		events:    newEventPublisher(producer),
	}
}

// GetStats статистика автора. Для неизвестного автора нулевая статистика без бейджей.
func (s *AuthorService) GetStats(ctx context.Context, authorID string) (*entity.AuthorStatsResponse, error) {
	stats, err := s.statsRepo.Get(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author stats: %w", err)
	}

	held, err := s.heldBadges(ctx, authorID)
	if err != nil {
		return nil, err
	}

	// бейджи монотонны, поэтому заработанные по текущей статистике тоже показываем
	earned := append(held, scoring.NewlyUnlocked(*stats, held)...)

	resp := &entity.AuthorStatsResponse{
		AuthorStats: *stats,
		Badges:      scoring.ResolveBadges(earned),
	}
	if primary, ok := scoring.PrimaryBadge(earned); ok {
		resp.PrimaryBadge = &primary
	}

	return resp, nil
}

// AdjustUpvotes меняет сумму апвоутов автора (не ниже нуля) и проверяет бейджи
func (s *AuthorService) AdjustUpvotes(ctx context.Context, authorID string, delta int64) ([]entity.Badge, error) {
	stats, err := s.statsRepo.AdjustUpvotes(ctx, authorID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust author upvotes: %w", err)
	}
	return s.EvaluateBadges(ctx, stats)
}

// RecordNewReview учитывает новый отзыв автора. Вызывать ровно один раз на отзыв.
func (s *AuthorService) RecordNewReview(ctx context.Context, authorID string) ([]entity.Badge, error) {
	stats, err := s.statsRepo.RecordNewReview(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to record new review: %w", err)
	}
	return s.EvaluateBadges(ctx, stats)
}

// SetReviewCount заменяет review_count числом отзывов из MongoDB и проверяет бейджи.
// Используется сверкой, когда RecordNewReview не прошла.
func (s *AuthorService) SetReviewCount(ctx context.Context, authorID string, count int64) ([]entity.Badge, error) {
	stats, err := s.statsRepo.SetReviewCount(ctx, authorID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to set review count: %w", err)
	}
	return s.EvaluateBadges(ctx, stats)
}

// Reevaluate проверяет бейджи по сохраненной статистике, после пересчета
// счетчики меняются в обход AdjustUpvotes
func (s *AuthorService) Reevaluate(ctx context.Context, authorID string) ([]entity.Badge, error) {
	stats, err := s.statsRepo.Get(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author stats: %w", err)
	}
	return s.EvaluateBadges(ctx, stats)
}

// EvaluateBadges сравнивает заработанные бейджи с сохраненными,
// сохраняет объединение и возвращает только новые в порядке каталога
func (s *AuthorService) EvaluateBadges(ctx context.Context, stats *entity.AuthorStats) ([]entity.Badge, error) {
	held, err := s.heldBadges(ctx, stats.AuthorID)
	if err != nil {
		return nil, err
	}

	unlocked := scoring.NewlyUnlocked(*stats, held)
	if len(unlocked) == 0 {
		return nil, nil
	}

	if err := s.statsRepo.SaveBadges(ctx, stats.AuthorID, unlocked); err != nil {
		return nil, fmt.Errorf("failed to save badges: %w", err)
	}

	badges := scoring.ResolveBadges(unlocked)
	for _, b := range badges {
		metrics.RecordBadgeUnlocked(string(b.ID), string(b.Tier))
	}

	s.events.publish(ctx, stats.AuthorID, entity.TrustEvent{
		EventType: entity.EventBadgeUnlocked,
		AuthorID:  stats.AuthorID,
		BadgeIDs:  unlocked,
	})

	return badges, nil
}

func (s *AuthorService) heldBadges(ctx context.Context, authorID string) ([]entity.BadgeID, error) {
	saved, err := s.statsRepo.GetBadges(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author badges: %w", err)
	}

	ids := make([]entity.BadgeID, 0, len(saved))
	for _, b := range saved {
		ids = append(ids, b.BadgeID)
	}
	return ids, nil
}
