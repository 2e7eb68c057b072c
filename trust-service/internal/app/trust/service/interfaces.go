package service

import (
	"context"

	"worththehype/trust-service/internal/app/trust/entity"
)

// Интерфейсы сервисов для handler и processor слоев

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, user *entity.CurrentUser, req *entity.CreateReviewRequest) (*entity.Review, []entity.Badge, error)
	GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]entity.Review, error)
	GetReview(ctx context.Context, reviewID string) (*entity.Review, error)
}

type VoteServiceInterface interface {
	ApplyVote(ctx context.Context, subjectID, voterID string, direction entity.Direction) (*entity.VoteResult, error)
	GetUserVote(ctx context.Context, subjectID, voterID string) (*entity.Direction, error)
}

type AuthorServiceInterface interface {
	GetStats(ctx context.Context, authorID string) (*entity.AuthorStatsResponse, error)
}

type CredibilityServiceInterface interface {
	GetOrCompute(ctx context.Context, reviewID, text string) (*entity.CredibilityRecord, error)
}

type ScoreServiceInterface interface {
	RestaurantScore(ctx context.Context, restaurantID string) (*entity.RestaurantScore, error)
}

type SummaryServiceInterface interface {
	GetSummary(ctx context.Context, restaurantID string, force bool) (*entity.SummaryResponse, error)
}

type ReconcileServiceInterface interface {
	ReconcilePending(ctx context.Context) (*entity.ReconcileResponse, error)
	ReconcileAll(ctx context.Context) (*entity.ReconcileResponse, error)
}
