package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound      = errors.New("review not found")
	ErrAggregateNotFound   = errors.New("review aggregate not found")
	ErrVoteConflict        = errors.New("concurrent vote on the same review")
	ErrCredibilityNotFound = errors.New("credibility record not found")
	ErrSummaryNotFound     = errors.New("summary not found")
)

// isUniqueViolation проверяет нарушение UNIQUE / PRIMARY KEY
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
