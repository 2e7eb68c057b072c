package repository

import (
	"context"
	"errors"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
)

// метка сервиса для метрик Redis и БД
const serviceName = "trust-service"

const (
	tableVotes        = "votes"
	tableAggregates   = "review_aggregates"
	tableAuthorStats  = "author_stats"
	tableAuthorBadges = "author_badges"
)

// observeDb запускает таймер запроса. Возвращенная функция пишет длительность,
// сбои драйвера (но не доменные ошибки) попадают в db_errors_total.
func observeDb(op metrics.DbOperation, table string) func(error) {
	timer := metrics.NewDbTimer(serviceName, op, table)
	return func(err error) {
		timer.ObserveDuration()
		if err != nil && !errors.Is(err, ErrAggregateNotFound) && !errors.Is(err, ErrVoteConflict) {
			metrics.RecordDbError(serviceName, op)
		}
	}
}

// ReviewRepository отзывы в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]entity.Review, error)
	CountByAuthorID(ctx context.Context, authorID string) (int64, error)
}

// VoteRepository журнал голосов в PostgreSQL
type VoteRepository interface {
	// Apply атомарно переводит голос (subject, voter) в следующее состояние
	// и возвращает направление, которое было до изменения
	Apply(ctx context.Context, subjectID, voterID string, requested entity.Direction) (*entity.Direction, error)
	Get(ctx context.Context, subjectID, voterID string) (*entity.Direction, error)
}

// AggregateRepository счетчики голосов по отзывам
type AggregateRepository interface {
	Get(ctx context.Context, subjectID string) (*entity.ReviewAggregate, error)
	Ensure(ctx context.Context, agg *entity.ReviewAggregate) error
	ApplyDelta(ctx context.Context, subjectID string, delta entity.VoteDelta) (*entity.ReviewAggregate, error)
}

// AuthorStatsRepository статистика и бейджи авторов
type AuthorStatsRepository interface {
	Get(ctx context.Context, authorID string) (*entity.AuthorStats, error)
	AdjustUpvotes(ctx context.Context, authorID string, delta int64) (*entity.AuthorStats, error)
	RecordNewReview(ctx context.Context, authorID string) (*entity.AuthorStats, error)
	// SetReviewCount перезаписывает review_count значением, посчитанным по MongoDB
	SetReviewCount(ctx context.Context, authorID string, count int64) (*entity.AuthorStats, error)
	GetBadges(ctx context.Context, authorID string) ([]entity.AuthorBadge, error)
	SaveBadges(ctx context.Context, authorID string, ids []entity.BadgeID) error
}

// CredibilityRepository неизменяемый кеш оценок достоверности в Redis
type CredibilityRepository interface {
	Get(ctx context.Context, reviewID string) (*entity.CredibilityRecord, error)
	GetMany(ctx context.Context, reviewIDs []string) (map[string]entity.CredibilityRecord, error)
	// SaveIfAbsent пишет запись только если ее еще нет и возвращает сохраненное значение
	SaveIfAbsent(ctx context.Context, reviewID string, record *entity.CredibilityRecord) (*entity.CredibilityRecord, error)
}

// SummaryRepository кеш сводок по ресторанам в Redis
type SummaryRepository interface {
	Get(ctx context.Context, restaurantID string) (*entity.RestaurantSummary, error)
	Save(ctx context.Context, summary *entity.RestaurantSummary) error
}

// PendingRepository очереди сверки: отзывы, чьи счетчики разошлись с журналом,
// и авторы, у которых не учтен новый отзыв
type PendingRepository interface {
	Add(ctx context.Context, subjectID string) error
	Pop(ctx context.Context, count int64) ([]string, error)
	AddAuthor(ctx context.Context, authorID string) error
	PopAuthors(ctx context.Context, count int64) ([]string, error)
	// Size суммарный размер обеих очередей
	Size(ctx context.Context) (int64, error)
}

// ReconcileRepository пересчет счетчиков по журналу голосов
type ReconcileRepository interface {
	RecountAggregate(ctx context.Context, subjectID string) (int64, error)
	RecountAuthor(ctx context.Context, authorID string) (int64, error)
	RecountAllAggregates(ctx context.Context) (int64, error)
	// RecountAllAuthors возвращает авторов, чья сумма апвоутов изменилась
	RecountAllAuthors(ctx context.Context) ([]string, error)
}
