package service

import (
	"context"
	"errors"
	"fmt"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/repository"
)

// Сколько отзывов и авторов из очереди сверки обрабатываем за один проход
const reconcileBatchSize = 100

// ReconcileService пересчитывает счетчики по журналу голосов
// и review_count по MongoDB
type ReconcileService struct {
	reconcileRepo repository.ReconcileRepository
	pendingRepo   repository.PendingRepository
	aggregateRepo repository.AggregateRepository
	reviewRepo    repository.ReviewRepository
	authors       *AuthorService
}

func NewReconcileService(
	reconcileRepo repository.ReconcileRepository,
	pendingRepo repository.PendingRepository,
	aggregateRepo repository.AggregateRepository,
	reviewRepo repository.ReviewRepository,
	authors *AuthorService,
) *ReconcileService {
	return &ReconcileService{
		reconcileRepo: reconcileRepo,
		pendingRepo:   pendingRepo,
		aggregateRepo: aggregateRepo,
		reviewRepo:    reviewRepo,
		authors:       authors,
	}
}

// ReconcilePending разбирает обе очереди сверки:
// 1. отзывы, помеченные после частичного сбоя голосования, и суммы апвоутов их авторов
// 2. авторов, у которых не учтен новый отзыв
// Для каждого затронутого автора заново проверяются бейджи. Неудавшиеся возвращаются в очередь.
func (s *ReconcileService) ReconcilePending(ctx context.Context) (*entity.ReconcileResponse, error) {
	ids, err := s.pendingRepo.Pop(ctx, reconcileBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to pop pending reviews: %w", err)
	}

	resp := &entity.ReconcileResponse{}
	authors := make(map[string]struct{})

	for _, id := range ids {
		n, err := s.reconcileRepo.RecountAggregate(ctx, id)
		if err != nil {
			logger.Error().Err(err).Str("review_id", id).Msg("Failed to recount aggregate")
			s.requeue(ctx, id)
			continue
		}
		resp.Aggregates += n

		agg, err := s.aggregateRepo.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrAggregateNotFound) {
				logger.Error().Err(err).Str("review_id", id).Msg("Failed to load aggregate for reconcile")
				s.requeue(ctx, id)
			}
			continue
		}
		authors[agg.AuthorID] = struct{}{}
	}

	for authorID := range authors {
		n, err := s.reconcileRepo.RecountAuthor(ctx, authorID)
		if err != nil {
			logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to recount author")
			continue
		}
		resp.Authors += n
		s.reevaluate(ctx, authorID)
	}

	resp.Authors += s.recountReviewCounts(ctx)

	s.report(ctx, resp)
	return resp, nil
}

// ReconcileAll полный пересчет всех счетчиков отзывов и авторов.
// review_count здесь не трогается: его чинит очередь авторов.
func (s *ReconcileService) ReconcileAll(ctx context.Context) (*entity.ReconcileResponse, error) {
	aggregates, err := s.reconcileRepo.RecountAllAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recount aggregates: %w", err)
	}

	changed, err := s.reconcileRepo.RecountAllAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recount authors: %w", err)
	}
	for _, authorID := range changed {
		s.reevaluate(ctx, authorID)
	}

	resp := &entity.ReconcileResponse{Aggregates: aggregates, Authors: int64(len(changed))}
	s.report(ctx, resp)
	return resp, nil
}

// recountReviewCounts выставляет review_count авторов из очереди по числу их отзывов в MongoDB
func (s *ReconcileService) recountReviewCounts(ctx context.Context) int64 {
	authorIDs, err := s.pendingRepo.PopAuthors(ctx, reconcileBatchSize)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to pop pending authors")
		return 0
	}

	var fixed int64
	for _, authorID := range authorIDs {
		count, err := s.reviewRepo.CountByAuthorID(ctx, authorID)
		if err != nil {
			logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to count author reviews")
			s.requeueAuthor(ctx, authorID)
			continue
		}

		if _, err := s.authors.SetReviewCount(ctx, authorID, count); err != nil {
			logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to set review count")
			s.requeueAuthor(ctx, authorID)
			continue
		}
		fixed++
	}
	return fixed
}

// reevaluate ошибка бейджей не отменяет пересчет, следующий голос проверит их снова
func (s *ReconcileService) reevaluate(ctx context.Context, authorID string) {
	if _, err := s.authors.Reevaluate(ctx, authorID); err != nil {
		logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to evaluate badges after reconcile")
	}
}

func (s *ReconcileService) requeue(ctx context.Context, id string) {
	if err := s.pendingRepo.Add(ctx, id); err != nil {
		logger.Error().Err(err).Str("review_id", id).Msg("Failed to requeue review for reconcile")
	}
}

func (s *ReconcileService) requeueAuthor(ctx context.Context, authorID string) {
	if err := s.pendingRepo.AddAuthor(ctx, authorID); err != nil {
		logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to requeue author for reconcile")
	}
}

func (s *ReconcileService) report(ctx context.Context, resp *entity.ReconcileResponse) {
	metrics.RecordReconciled("aggregate", resp.Aggregates)
	metrics.RecordReconciled("author", resp.Authors)

	if size, err := s.pendingRepo.Size(ctx); err == nil {
		metrics.SetReconcilePending(size)
	}

	logger.Info().
		Int64("aggregates", resp.Aggregates).
		Int64("authors", resp.Authors).
		Msg("Counters reconciled")
}
