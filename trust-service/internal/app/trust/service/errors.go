package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound     = errors.New("review not found")
	ErrInvalidDirection   = errors.New("vote direction must be up or down")
	ErrVoteConflict       = errors.New("concurrent vote, retry")
	ErrAggregateSkew      = errors.New("vote recorded, counters pending reconciliation")
	ErrInvalidReview      = errors.New("invalid review")
	ErrSummaryUnavailable = errors.New("summary unavailable")
)
