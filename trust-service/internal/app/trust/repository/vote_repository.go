package repository

import (
	"context"
	"fmt"

	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/scoring"

	"gorm.io/gorm"
)

const (
	selectVoteForUpdate = `SELECT subject_id, voter_id, direction FROM votes WHERE subject_id = ? AND voter_id = ? FOR UPDATE`
	selectVote          = `SELECT subject_id, voter_id, direction FROM votes WHERE subject_id = ? AND voter_id = ?`
	deleteVote          = `DELETE FROM votes WHERE subject_id = ? AND voter_id = ?`
	updateVote          = `UPDATE votes SET direction = ?, updated_at = NOW() WHERE subject_id = ? AND voter_id = ?`
	insertVote          = `INSERT INTO votes (subject_id, voter_id, direction, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())`
)

// voteRepository журнал голосов в PostgreSQL через GORM
type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Apply выполняет шаг журнала в одной транзакции. Строка блокируется FOR UPDATE,
// поэтому параллельные голоса одного пользователя выстраиваются в очередь.
// Две одновременные первые вставки дают ErrVoteConflict, вызывающий повторяет запрос.
func (r *voteRepository) Apply(ctx context.Context, subjectID, voterID string, requested entity.Direction) (*entity.Direction, error) {
	var previous *entity.Direction

	done := observeDb(metrics.DbOpUpdate, tableVotes)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []entity.Vote
		if err := tx.Raw(selectVoteForUpdate, subjectID, voterID).Scan(&rows).Error; err != nil {
			return fmt.Errorf("failed to lock vote: %w", err)
		}

		if len(rows) > 0 {
			d := rows[0].Direction
			previous = &d
		}

		_, next := scoring.Transition(previous, requested)

		var err error
		switch {
		case next == nil:
			err = tx.Exec(deleteVote, subjectID, voterID).Error
		case previous != nil:
			err = tx.Exec(updateVote, string(*next), subjectID, voterID).Error
		default:
			err = tx.Exec(insertVote, subjectID, voterID, string(*next)).Error
		}

		if err != nil {
			if isUniqueViolation(err) {
				return ErrVoteConflict
			}
			return fmt.Errorf("failed to write vote: %w", err)
		}
		return nil
	})
	done(err)

	if err != nil {
		return nil, err
	}
	return previous, nil
}

// Get текущий голос пользователя, nil если голоса нет
func (r *voteRepository) Get(ctx context.Context, subjectID, voterID string) (*entity.Direction, error) {
	var rows []entity.Vote
	done := observeDb(metrics.DbOpSelect, tableVotes)
	err := r.db.WithContext(ctx).Raw(selectVote, subjectID, voterID).Scan(&rows).Error
	done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	d := rows[0].Direction
	return &d, nil
}
