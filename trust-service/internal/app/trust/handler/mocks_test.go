package handler

import (
	"context"

	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, user *entity.CurrentUser, req *entity.CreateReviewRequest) (*entity.Review, []entity.Badge, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var badges []entity.Badge
	if args.Get(1) != nil {
		badges = args.Get(1).([]entity.Badge)
	}
	return args.Get(0).(*entity.Review), badges, args.Error(2)
}

func (m *MockReviewService) GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]entity.Review, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) ApplyVote(ctx context.Context, subjectID, voterID string, direction entity.Direction) (*entity.VoteResult, error) {
	args := m.Called(ctx, subjectID, voterID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VoteResult), args.Error(1)
}

func (m *MockVoteService) GetUserVote(ctx context.Context, subjectID, voterID string) (*entity.Direction, error) {
	args := m.Called(ctx, subjectID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Direction), args.Error(1)
}

type MockCredibilityService struct {
	mock.Mock
}

func (m *MockCredibilityService) GetOrCompute(ctx context.Context, reviewID, text string) (*entity.CredibilityRecord, error) {
	args := m.Called(ctx, reviewID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CredibilityRecord), args.Error(1)
}

type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) GetStats(ctx context.Context, authorID string) (*entity.AuthorStatsResponse, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorStatsResponse), args.Error(1)
}

type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) RestaurantScore(ctx context.Context, restaurantID string) (*entity.RestaurantScore, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RestaurantScore), args.Error(1)
}

type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) GetSummary(ctx context.Context, restaurantID string, force bool) (*entity.SummaryResponse, error) {
	args := m.Called(ctx, restaurantID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SummaryResponse), args.Error(1)
}

type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) ReconcilePending(ctx context.Context) (*entity.ReconcileResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReconcileResponse), args.Error(1)
}

func (m *MockReconcileService) ReconcileAll(ctx context.Context) (*entity.ReconcileResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReconcileResponse), args.Error(1)
}
