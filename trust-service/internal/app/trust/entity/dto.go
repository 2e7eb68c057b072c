package entity

// CreateReviewRequest - запрос на регистрацию отзыва
type CreateReviewRequest struct {
	RestaurantID  string `json:"restaurant_id" validate:"required"`
	HypeRating    *int   `json:"hype_rating" validate:"required,min=0,max=10"`
	RealityRating *int   `json:"reality_rating" validate:"required,min=0,max=10"`
	Text          string `json:"text" validate:"required,min=10,max=2000"`
}

// VoteRequest - голос за отзыв
type VoteRequest struct {
	Direction Direction `json:"direction" validate:"required,oneof=up down"`
}

// UserVoteResponse - текущий голос пользователя
type UserVoteResponse struct {
	ReviewID  string     `json:"review_id"`
	Direction *Direction `json:"direction"`
}

// AuthorStatsResponse - статистика автора с бейджами
type AuthorStatsResponse struct {
	AuthorStats
	Badges       []Badge `json:"badges"`
	PrimaryBadge *Badge  `json:"primary_badge"`
}

// SummaryResponse - сводка по ресторану
type SummaryResponse struct {
	Summary *RestaurantSummary `json:"summary"`
	Reason  string             `json:"reason,omitempty"`
}

// ReconcileResponse - итог сверки счетчиков
type ReconcileResponse struct {
	Aggregates int64 `json:"aggregates"`
	Authors    int64 `json:"authors"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}
