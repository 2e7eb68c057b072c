package mocks

import (
	"context"

	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/stretchr/testify/mock"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]entity.Review, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByAuthorID(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVoteRepository мок для VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Apply(ctx context.Context, subjectID, voterID string, requested entity.Direction) (*entity.Direction, error) {
	args := m.Called(ctx, subjectID, voterID, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Direction), args.Error(1)
}

func (m *MockVoteRepository) Get(ctx context.Context, subjectID, voterID string) (*entity.Direction, error) {
	args := m.Called(ctx, subjectID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Direction), args.Error(1)
}

// MockAggregateRepository мок для AggregateRepository
type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) Get(ctx context.Context, subjectID string) (*entity.ReviewAggregate, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewAggregate), args.Error(1)
}

func (m *MockAggregateRepository) Ensure(ctx context.Context, agg *entity.ReviewAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *MockAggregateRepository) ApplyDelta(ctx context.Context, subjectID string, delta entity.VoteDelta) (*entity.ReviewAggregate, error) {
	args := m.Called(ctx, subjectID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewAggregate), args.Error(1)
}

// MockAuthorStatsRepository мок для AuthorStatsRepository
type MockAuthorStatsRepository struct {
	mock.Mock
}

func (m *MockAuthorStatsRepository) Get(ctx context.Context, authorID string) (*entity.AuthorStats, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorStats), args.Error(1)
}

func (m *MockAuthorStatsRepository) AdjustUpvotes(ctx context.Context, authorID string, delta int64) (*entity.AuthorStats, error) {
	args := m.Called(ctx, authorID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorStats), args.Error(1)
}

func (m *MockAuthorStatsRepository) RecordNewReview(ctx context.Context, authorID string) (*entity.AuthorStats, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorStats), args.Error(1)
}

func (m *MockAuthorStatsRepository) SetReviewCount(ctx context.Context, authorID string, count int64) (*entity.AuthorStats, error) {
	args := m.Called(ctx, authorID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthorStats), args.Error(1)
}

func (m *MockAuthorStatsRepository) GetBadges(ctx context.Context, authorID string) ([]entity.AuthorBadge, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuthorBadge), args.Error(1)
}

func (m *MockAuthorStatsRepository) SaveBadges(ctx context.Context, authorID string, ids []entity.BadgeID) error {
	args := m.Called(ctx, authorID, ids)
	return args.Error(0)
}

// MockCredibilityRepository мок для CredibilityRepository
type MockCredibilityRepository struct {
	mock.Mock
}

func (m *MockCredibilityRepository) Get(ctx context.Context, reviewID string) (*entity.CredibilityRecord, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CredibilityRecord), args.Error(1)
}

func (m *MockCredibilityRepository) GetMany(ctx context.Context, reviewIDs []string) (map[string]entity.CredibilityRecord, error) {
	args := m.Called(ctx, reviewIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.CredibilityRecord), args.Error(1)
}

func (m *MockCredibilityRepository) SaveIfAbsent(ctx context.Context, reviewID string, record *entity.CredibilityRecord) (*entity.CredibilityRecord, error) {
	args := m.Called(ctx, reviewID, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CredibilityRecord), args.Error(1)
}

// MockSummaryRepository мок для SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Get(ctx context.Context, restaurantID string) (*entity.RestaurantSummary, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RestaurantSummary), args.Error(1)
}

func (m *MockSummaryRepository) Save(ctx context.Context, summary *entity.RestaurantSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// MockPendingRepository мок для PendingRepository
type MockPendingRepository struct {
	mock.Mock
}

func (m *MockPendingRepository) Add(ctx context.Context, subjectID string) error {
	args := m.Called(ctx, subjectID)
	return args.Error(0)
}

func (m *MockPendingRepository) Pop(ctx context.Context, count int64) ([]string, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPendingRepository) AddAuthor(ctx context.Context, authorID string) error {
	args := m.Called(ctx, authorID)
	return args.Error(0)
}

func (m *MockPendingRepository) PopAuthors(ctx context.Context, count int64) ([]string, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPendingRepository) Size(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReconcileRepository мок для ReconcileRepository
type MockReconcileRepository struct {
	mock.Mock
}

func (m *MockReconcileRepository) RecountAggregate(ctx context.Context, subjectID string) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconcileRepository) RecountAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconcileRepository) RecountAllAggregates(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconcileRepository) RecountAllAuthors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockTextAnalyzer мок модели оценки достоверности
type MockTextAnalyzer struct {
	mock.Mock
}

func (m *MockTextAnalyzer) AnalyzeCredibility(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

// MockSummarizer мок модели сводок
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, totalReviews int, corpus string) (string, error) {
	args := m.Called(ctx, totalReviews, corpus)
	return args.String(0), args.Error(1)
}
