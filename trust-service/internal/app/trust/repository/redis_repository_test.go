package repository

import (
	"context"
	"testing"
	"time"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RedisRepositoryTestSuite тесты кешей достоверности, сводок и очереди сверки
type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis   *miniredis.Miniredis
	client      *redis.Client
	credibility CredibilityRepository
	summaries   SummaryRepository
	pending     PendingRepository
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.credibility = NewCredibilityRepository(s.client)
	s.summaries = NewSummaryRepository(s.client)
	s.pending = NewPendingRepository(s.client)
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *RedisRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== Credibility Tests =====================

func (s *RedisRepositoryTestSuite) TestCredibility_GetMissing() {
	record, err := s.credibility.Get(context.Background(), "r1")

	s.ErrorIs(err, ErrCredibilityNotFound)
	s.Nil(record)
}

func (s *RedisRepositoryTestSuite) TestCredibility_SaveIfAbsent_FirstWriterWins() {
	ctx := context.Background()

	first := &entity.CredibilityRecord{Tag: entity.TagGenuine, Confidence: 90, Signals: []string{"specific dishes"}}
	second := &entity.CredibilityRecord{Tag: entity.TagPromotional, Confidence: 10, Signals: []string{}}

	// Act
	saved1, err := s.credibility.SaveIfAbsent(ctx, "r1", first)
	s.NoError(err)
	saved2, err := s.credibility.SaveIfAbsent(ctx, "r1", second)
	s.NoError(err)

	// Assert
	s.Equal(*first, *saved1)
	s.Equal(*first, *saved2)

	stored, err := s.credibility.Get(ctx, "r1")
	s.NoError(err)
	s.Equal(*first, *stored)
	s.Equal(time.Duration(0), s.miniRedis.TTL("credibility:r1"))
}

func (s *RedisRepositoryTestSuite) TestCredibility_RepeatedReadsIdentical() {
	ctx := context.Background()
	_, err := s.credibility.SaveIfAbsent(ctx, "r1", &entity.CredibilityRecord{Tag: entity.TagLowConfidence, Confidence: 50, Signals: []string{"short"}})
	s.NoError(err)

	raw1, _ := s.miniRedis.Get("credibility:r1")
	_, _ = s.credibility.Get(ctx, "r1")
	raw2, _ := s.miniRedis.Get("credibility:r1")

	s.Equal(raw1, raw2)
}

func (s *RedisRepositoryTestSuite) TestCredibility_GetMany_SkipsMissing() {
	ctx := context.Background()
	_, _ = s.credibility.SaveIfAbsent(ctx, "a", &entity.CredibilityRecord{Tag: entity.TagGenuine, Confidence: 80, Signals: []string{}})
	_, _ = s.credibility.SaveIfAbsent(ctx, "c", &entity.CredibilityRecord{Tag: entity.TagPromotional, Confidence: 20, Signals: []string{}})

	records, err := s.credibility.GetMany(ctx, []string{"a", "b", "c"})

	s.NoError(err)
	s.Len(records, 2)
	s.Equal(entity.TagGenuine, records["a"].Tag)
	s.Equal(entity.TagPromotional, records["c"].Tag)
	_, ok := records["b"]
	s.False(ok)
}

func (s *RedisRepositoryTestSuite) TestCredibility_GetMany_Empty() {
	records, err := s.credibility.GetMany(context.Background(), nil)

	s.NoError(err)
	s.Empty(records)
}

func (s *RedisRepositoryTestSuite) TestCredibility_CorruptValue() {
	s.miniRedis.Set("credibility:bad", "{not json")

	_, err := s.credibility.Get(context.Background(), "bad")

	s.Error(err)
	s.Contains(err.Error(), "failed to unmarshal credibility")
}

// ===================== Summary Tests =====================

func (s *RedisRepositoryTestSuite) TestSummary_SaveAndOverwrite() {
	ctx := context.Background()
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.NoError(s.summaries.Save(ctx, &entity.RestaurantSummary{RestaurantID: "rest1", SummaryText: "old", ReviewCountAtGeneration: 2, GeneratedAt: generated}))
	s.NoError(s.summaries.Save(ctx, &entity.RestaurantSummary{RestaurantID: "rest1", SummaryText: "new", ReviewCountAtGeneration: 3, GeneratedAt: generated}))

	summary, err := s.summaries.Get(ctx, "rest1")

	s.NoError(err)
	s.Equal("new", summary.SummaryText)
	s.Equal(3, summary.ReviewCountAtGeneration)
	s.True(generated.Equal(summary.GeneratedAt))
}

func (s *RedisRepositoryTestSuite) TestSummary_Missing() {
	_, err := s.summaries.Get(context.Background(), "none")

	s.ErrorIs(err, ErrSummaryNotFound)
}

// ===================== Pending Tests =====================

func (s *RedisRepositoryTestSuite) TestPending_AddPop() {
	ctx := context.Background()

	s.NoError(s.pending.Add(ctx, "r1"))
	s.NoError(s.pending.Add(ctx, "r2"))
	s.NoError(s.pending.Add(ctx, "r1"))

	size, err := s.pending.Size(ctx)
	s.NoError(err)
	s.Equal(int64(2), size)

	ids, err := s.pending.Pop(ctx, 10)
	s.NoError(err)
	s.ElementsMatch([]string{"r1", "r2"}, ids)

	size, _ = s.pending.Size(ctx)
	s.Equal(int64(0), size)
}

func (s *RedisRepositoryTestSuite) TestPending_PopEmpty() {
	ids, err := s.pending.Pop(context.Background(), 5)

	s.NoError(err)
	s.Empty(ids)
}

func (s *RedisRepositoryTestSuite) TestPending_AuthorsSeparateFromReviews() {
	ctx := context.Background()

	s.NoError(s.pending.Add(ctx, "r1"))
	s.NoError(s.pending.AddAuthor(ctx, "a1"))
	s.NoError(s.pending.AddAuthor(ctx, "a1"))

	size, err := s.pending.Size(ctx)
	s.NoError(err)
	s.Equal(int64(2), size)

	authors, err := s.pending.PopAuthors(ctx, 10)
	s.NoError(err)
	s.Equal([]string{"a1"}, authors)

	reviews, err := s.pending.Pop(ctx, 10)
	s.NoError(err)
	s.Equal([]string{"r1"}, reviews)
}

// ===================== Redis Metrics Tests =====================

func TestRedisErrorsAreCounted(t *testing.T) {
	// Arrange
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	getErrors := metrics.RedisErrors.WithLabelValues(serviceName, string(metrics.RedisOpGet))
	saddErrors := metrics.RedisErrors.WithLabelValues(serviceName, string(metrics.RedisOpSAdd))
	getBefore := testutil.ToFloat64(getErrors)
	saddBefore := testutil.ToFloat64(saddErrors)

	// Act
	_, getErr := NewCredibilityRepository(client).Get(context.Background(), "r1")
	addErr := NewPendingRepository(client).AddAuthor(context.Background(), "a1")

	// Assert
	assert.Error(t, getErr)
	assert.NotErrorIs(t, getErr, ErrCredibilityNotFound)
	assert.Error(t, addErr)
	assert.Equal(t, getBefore+1, testutil.ToFloat64(getErrors))
	assert.Equal(t, saddBefore+1, testutil.ToFloat64(saddErrors))
}

func TestRedisMissIsNotAnError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	getErrors := metrics.RedisErrors.WithLabelValues(serviceName, string(metrics.RedisOpGet))
	before := testutil.ToFloat64(getErrors)

	_, err = NewSummaryRepository(client).Get(context.Background(), "none")

	assert.ErrorIs(t, err, ErrSummaryNotFound)
	assert.Equal(t, before, testutil.ToFloat64(getErrors))
}
