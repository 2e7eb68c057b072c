package service

import (
	"context"
	"fmt"

	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/scoring"
)

// ScoreService рейтинг ресторана с учетом достоверности.
// Ничего не сохраняет и не вызывает модель.
type ScoreService struct {
	reviewRepo  repository.ReviewRepository
	credibility *CredibilityService
}

func NewScoreService(reviewRepo repository.ReviewRepository, credibility *CredibilityService) *ScoreService {
	return &ScoreService{
		reviewRepo:  reviewRepo,
		credibility: credibility,
	}
}

func (s *ScoreService) RestaurantScore(ctx context.Context, restaurantID string) (*entity.RestaurantScore, error) {
	reviews, err := s.reviewRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID.Hex())
	}

	// только сохраненные записи: отзывы без оценки идут с весом по умолчанию
	records, err := s.credibility.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	rated := make([]scoring.RatedReview, 0, len(reviews))
	analyzed := 0
	for i, r := range reviews {
		rated = append(rated, scoring.RatedReview{ReviewID: ids[i], Rating: float64(r.RealityRating)})
		if rec, ok := records[ids[i]]; ok && !scoring.IsFallback(rec) {
			analyzed++
		}
	}

	score := &entity.RestaurantScore{
		RestaurantID:  restaurantID,
		ReviewCount:   len(reviews),
		AnalyzedCount: analyzed,
	}

	weighted, okWeighted := scoring.WeightedScore(rated, records)
	if okWeighted {
		w := scoring.RoundScore(weighted)
		score.WeightedScore = &w
	}

	raw, okRaw := scoring.RawScore(rated)
	if okRaw {
		r := scoring.RoundScore(raw)
		score.RawScore = &r
	}

	if okWeighted && okRaw {
		d := scoring.RoundScore(weighted - raw)
		score.Delta = &d
	}

	return score, nil
}
