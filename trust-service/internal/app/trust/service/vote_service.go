package service

import (
	"context"
	"errors"
	"fmt"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/infrastructure"
	"worththehype/trust-service/internal/app/trust/repository"
	"worththehype/trust-service/internal/app/trust/scoring"
)

// VoteService применяет голоса: журнал, затем счетчики отзыва, затем автор
type VoteService struct {
	voteRepo      repository.VoteRepository
	aggregateRepo repository.AggregateRepository
	pendingRepo   repository.PendingRepository
	authors       *AuthorService
	events        *eventPublisher
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	aggregateRepo repository.AggregateRepository,
	pendingRepo repository.PendingRepository,
	authors *AuthorService,
	producer infrastructure.MessagePublisher,
) *VoteService {
	return &VoteService{
		voteRepo:      voteRepo,
		aggregateRepo: aggregateRepo,
		pendingRepo:   pendingRepo,
		authors:       authors,
		events:        newEventPublisher(producer),
	}
}

// ApplyVote применяет голос voterID за отзыв subjectID.
// 1. Журнал голосов (toggle-off / switch / fresh)
// 2. Счетчики отзыва отдельной транзакцией; при сбое отзыв уходит в сверку
// 3. Апвоуты автора отзыва и проверка бейджей, если изменились апвоуты
func (s *VoteService) ApplyVote(ctx context.Context, subjectID, voterID string, direction entity.Direction) (*entity.VoteResult, error) {
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	// без агрегата голосовать не за что, журнал не трогаем
	if _, err := s.aggregateRepo.Get(ctx, subjectID); err != nil {
		if errors.Is(err, repository.ErrAggregateNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load aggregate: %w", err)
	}

	previous, err := s.voteRepo.Apply(ctx, subjectID, voterID, direction)
	if err != nil {
		metrics.RecordVoteFailure("ledger")
		if errors.Is(err, repository.ErrVoteConflict) {
			return nil, ErrVoteConflict
		}
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	delta, next := scoring.Transition(previous, direction)

	aggregate, err := s.aggregateRepo.ApplyDelta(ctx, subjectID, delta)
	if err != nil {
		metrics.RecordVoteFailure("aggregate")
		s.markPending(ctx, subjectID)
		return nil, fmt.Errorf("%w: %v", ErrAggregateSkew, err)
	}

	metrics.RecordVoteApplied(scoring.TransitionKind(previous, direction), string(direction))

	result := &entity.VoteResult{
		ReviewID:  subjectID,
		Delta:     delta,
		Aggregate: *aggregate,
		UserVote:  next,
	}

	if delta.Up != 0 {
		badges, err := s.authors.AdjustUpvotes(ctx, aggregate.AuthorID, delta.Up)
		if err != nil {
			// голос и счетчики уже записаны, статистику автора поправит сверка
			metrics.RecordVoteFailure("author")
			logger.Error().
				Err(err).
				Str("review_id", subjectID).
				Str("author_id", aggregate.AuthorID).
				Int64("delta", delta.Up).
				Msg("Failed to adjust author upvotes")
			s.markPending(ctx, subjectID)
		}
		result.NewBadges = badges
	}

	s.events.publish(ctx, subjectID, entity.TrustEvent{
		EventType:    entity.EventVoteApplied,
		ReviewID:     subjectID,
		RestaurantID: aggregate.RestaurantID,
		AuthorID:     aggregate.AuthorID,
		VoterID:      voterID,
		Direction:    string(direction),
		Upvotes:      aggregate.Upvotes,
		Downvotes:    aggregate.Downvotes,
		NetScore:     aggregate.NetScore,
	})

	return result, nil
}

// GetUserVote текущий голос пользователя, nil если голоса нет
func (s *VoteService) GetUserVote(ctx context.Context, subjectID, voterID string) (*entity.Direction, error) {
	direction, err := s.voteRepo.Get(ctx, subjectID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return direction, nil
}

func (s *VoteService) markPending(ctx context.Context, subjectID string) {
	if err := s.pendingRepo.Add(ctx, subjectID); err != nil {
		logger.Error().
			Err(err).
			Str("review_id", subjectID).
			Msg("Failed to mark review for reconciliation")
		return
	}
	logger.Warn().Str("review_id", subjectID).Msg("Review marked for counter reconciliation")
}
