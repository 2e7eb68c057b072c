package service

import (
	"context"
	"errors"
	"testing"

	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type voteFixture struct {
	votes      *mocks.MockVoteRepository
	aggregates *mocks.MockAggregateRepository
	pending    *mocks.MockPendingRepository
	stats      *mocks.MockAuthorStatsRepository
	producer   *mocks.MockMessagePublisher
	service    *VoteService
}

func newVoteFixture() *voteFixture {
	f := &voteFixture{
		votes:      new(mocks.MockVoteRepository),
		aggregates: new(mocks.MockAggregateRepository),
		pending:    new(mocks.MockPendingRepository),
		stats:      new(mocks.MockAuthorStatsRepository),
		producer:   &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	authors := NewAuthorService(f.stats, f.producer)
	f.service = NewVoteService(f.votes, f.aggregates, f.pending, authors, f.producer)
	return f
}

func direction(d entity.Direction) *entity.Direction {
	return &d
}

func aggregate(up, down int64) *entity.ReviewAggregate {
	return &entity.ReviewAggregate{
		SubjectID:    "review-1",
		RestaurantID: "restaurant-1",
		AuthorID:     "author-1",
		Upvotes:      up,
		Downvotes:    down,
		NetScore:     up - down,
	}
}

// ===================== ApplyVote Tests =====================

func TestApplyVote_FreshUpvote(t *testing.T) {
	// Arrange
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionUp).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", entity.VoteDelta{Up: 1, Down: 0, Net: 1}).Return(aggregate(1, 0), nil)
	f.stats.On("AdjustUpvotes", ctx, "author-1", int64(1)).
		Return(&entity.AuthorStats{AuthorID: "author-1", ReviewCount: 1, TotalUpvotesReceived: 1}, nil)
	f.stats.On("GetBadges", ctx, "author-1").
		Return([]entity.AuthorBadge{{AuthorID: "author-1", BadgeID: "first_bite"}}, nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(nil)

	// Act
	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionUp)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.VoteDelta{Up: 1, Down: 0, Net: 1}, result.Delta)
	assert.Equal(t, int64(1), result.Aggregate.Upvotes)
	require.NotNil(t, result.UserVote)
	assert.Equal(t, entity.DirectionUp, *result.UserVote)
	assert.Empty(t, result.NewBadges)
	assert.Len(t, f.producer.Messages, 1)
	f.stats.AssertNotCalled(t, "SaveBadges", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyVote_FreshDownvoteSkipsAuthor(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionDown).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", entity.VoteDelta{Up: 0, Down: 1, Net: -1}).Return(aggregate(0, 1), nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionDown)

	require.NoError(t, err)
	assert.Equal(t, int64(-1), result.Aggregate.NetScore)
	f.stats.AssertNotCalled(t, "AdjustUpvotes", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyVote_ToggleOffUpvote(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(1, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionUp).Return(direction(entity.DirectionUp), nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", entity.VoteDelta{Up: -1, Down: 0, Net: -1}).Return(aggregate(0, 0), nil)
	f.stats.On("AdjustUpvotes", ctx, "author-1", int64(-1)).
		Return(&entity.AuthorStats{AuthorID: "author-1"}, nil)
	f.stats.On("GetBadges", ctx, "author-1").Return([]entity.AuthorBadge{}, nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionUp)

	require.NoError(t, err)
	assert.Nil(t, result.UserVote)
	assert.Equal(t, int64(-1), result.Delta.Net)
	f.stats.AssertExpectations(t)
}

func TestApplyVote_SwitchToDown(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(3, 1), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionDown).Return(direction(entity.DirectionUp), nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", entity.VoteDelta{Up: -1, Down: 1, Net: -2}).Return(aggregate(2, 2), nil)
	f.stats.On("AdjustUpvotes", ctx, "author-1", int64(-1)).
		Return(&entity.AuthorStats{AuthorID: "author-1", TotalUpvotesReceived: 2}, nil)
	f.stats.On("GetBadges", ctx, "author-1").Return([]entity.AuthorBadge{}, nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionDown)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Aggregate.NetScore)
	assert.Equal(t, entity.DirectionDown, *result.UserVote)
}

func TestApplyVote_UnlocksBadge(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(9, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-10", entity.DirectionUp).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", mock.Anything).Return(aggregate(10, 0), nil)
	f.stats.On("AdjustUpvotes", ctx, "author-1", int64(1)).
		Return(&entity.AuthorStats{AuthorID: "author-1", ReviewCount: 1, TotalUpvotesReceived: 10}, nil)
	f.stats.On("GetBadges", ctx, "author-1").
		Return([]entity.AuthorBadge{{AuthorID: "author-1", BadgeID: "first_bite"}}, nil)
	f.stats.On("SaveBadges", ctx, "author-1", []entity.BadgeID{"crowd_pleaser"}).Return(nil)
	f.producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-10", entity.DirectionUp)

	require.NoError(t, err)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, entity.BadgeID("crowd_pleaser"), result.NewBadges[0].ID)
	// BADGE_UNLOCKED + VOTE_APPLIED
	assert.Len(t, f.producer.Messages, 2)
}

func TestApplyVote_InvalidDirection(t *testing.T) {
	f := newVoteFixture()

	result, err := f.service.ApplyVote(context.Background(), "review-1", "voter-1", entity.Direction("sideways"))

	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Nil(t, result)
	f.votes.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyVote_UnknownReview(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "missing").Return(nil, repository.ErrAggregateNotFound)

	result, err := f.service.ApplyVote(ctx, "missing", "voter-1", entity.DirectionUp)

	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, result)
	f.votes.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyVote_LedgerConflict(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionUp).Return(nil, repository.ErrVoteConflict)

	_, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionUp)

	assert.ErrorIs(t, err, ErrVoteConflict)
	f.aggregates.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyVote_AggregateFailureMarksPending(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionUp).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", mock.Anything).Return(nil, errors.New("connection reset"))
	f.pending.On("Add", ctx, "review-1").Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionUp)

	assert.ErrorIs(t, err, ErrAggregateSkew)
	assert.Nil(t, result)
	f.pending.AssertExpectations(t)
	f.stats.AssertNotCalled(t, "AdjustUpvotes", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.producer.Messages)
}

func TestApplyVote_AuthorFailureKeepsVote(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionUp).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", mock.Anything).Return(aggregate(1, 0), nil)
	f.stats.On("AdjustUpvotes", ctx, "author-1", int64(1)).Return(nil, errors.New("db down"))
	f.pending.On("Add", ctx, "review-1").Return(nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(nil)

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionUp)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Aggregate.Upvotes)
	f.pending.AssertExpectations(t)
}

func TestApplyVote_KafkaErrorIgnored(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.aggregates.On("Get", ctx, "review-1").Return(aggregate(0, 0), nil)
	f.votes.On("Apply", ctx, "review-1", "voter-1", entity.DirectionDown).Return(nil, nil)
	f.aggregates.On("ApplyDelta", ctx, "review-1", mock.Anything).Return(aggregate(0, 1), nil)
	f.producer.On("PublishMessage", ctx, "review-1", mock.Anything).Return(errors.New("kafka error"))

	result, err := f.service.ApplyVote(ctx, "review-1", "voter-1", entity.DirectionDown)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

// ===================== GetUserVote Tests =====================

func TestGetUserVote(t *testing.T) {
	f := newVoteFixture()
	ctx := context.Background()

	f.votes.On("Get", ctx, "review-1", "voter-1").Return(direction(entity.DirectionDown), nil)
	f.votes.On("Get", ctx, "review-1", "voter-2").Return(nil, nil)

	got, err := f.service.GetUserVote(ctx, "review-1", "voter-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionDown, *got)

	got, err = f.service.GetUserVote(ctx, "review-1", "voter-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
