package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Direction направление голоса за отзыв
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Vote запись журнала голосов. На пару (subject_id, voter_id) не больше одной строки.
type Vote struct {
	SubjectID string    `json:"review_id" gorm:"column:subject_id;primaryKey"`
	VoterID   string    `json:"voter_id" gorm:"column:voter_id;primaryKey"`
	Direction Direction `json:"direction" gorm:"column:direction"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Vote) TableName() string {
	return "votes"
}

// ReviewAggregate счетчики голосов отзыва. NetScore всегда равен Upvotes - Downvotes.
type ReviewAggregate struct {
	SubjectID    string    `json:"review_id" gorm:"column:subject_id;primaryKey"`
	RestaurantID string    `json:"restaurant_id" gorm:"column:restaurant_id"`
	AuthorID     string    `json:"author_id" gorm:"column:author_id"`
	Upvotes      int64     `json:"upvotes" gorm:"column:upvotes"`
	Downvotes    int64     `json:"downvotes" gorm:"column:downvotes"`
	NetScore     int64     `json:"net_score" gorm:"column:net_score"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (ReviewAggregate) TableName() string {
	return "review_aggregates"
}

// VoteDelta изменение счетчиков после одного голоса
type VoteDelta struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
	Net  int64 `json:"net"`
}

// VoteResult результат применения голоса
type VoteResult struct {
	ReviewID  string          `json:"review_id"`
	Delta     VoteDelta       `json:"delta"`
	Aggregate ReviewAggregate `json:"aggregate"`
	UserVote  *Direction      `json:"user_vote"` // nil если голос снят
	NewBadges []Badge         `json:"new_badges,omitempty"`
}

// AuthorStats статистика автора отзывов
type AuthorStats struct {
	AuthorID             string    `json:"author_id" gorm:"column:author_id;primaryKey"`
	ReviewCount          int64     `json:"review_count" gorm:"column:review_count"`
	TotalUpvotesReceived int64     `json:"total_upvotes_received" gorm:"column:total_upvotes_received"`
	UpdatedAt            time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (AuthorStats) TableName() string {
	return "author_stats"
}

type BadgeID string

type BadgeTier string

const (
	TierBronze    BadgeTier = "bronze"
	TierSilver    BadgeTier = "silver"
	TierGold      BadgeTier = "gold"
	TierLegendary BadgeTier = "legendary"
)

type Badge struct {
	ID          BadgeID   `json:"id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Tier        BadgeTier `json:"tier"`
}

// AuthorBadge сохраненный бейдж автора
type AuthorBadge struct {
	AuthorID string    `json:"author_id" gorm:"column:author_id;primaryKey"`
	BadgeID  BadgeID   `json:"badge_id" gorm:"column:badge_id;primaryKey"`
	EarnedAt time.Time `json:"earned_at" gorm:"column:earned_at"`
}

func (AuthorBadge) TableName() string {
	return "author_badges"
}

// Review отзыв о ресторане, хранится в MongoDB
type Review struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RestaurantID   string             `json:"restaurant_id" bson:"restaurant_id"`
	AuthorID       string             `json:"author_id" bson:"author_id"`
	AuthorName     string             `json:"author_name" bson:"author_name"`
	AccountCreated *time.Time         `json:"account_created,omitempty" bson:"account_created,omitempty"`
	HypeRating     int                `json:"hype_rating" bson:"hype_rating"`       // Ожидания, 0..10
	RealityRating  int                `json:"reality_rating" bson:"reality_rating"` // Реальность, 0..10
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

type CredibilityTag string

const (
	TagGenuine       CredibilityTag = "genuine"
	TagLowConfidence CredibilityTag = "low_confidence"
	TagPromotional   CredibilityTag = "promotional"
)

func (t CredibilityTag) Valid() bool {
	switch t {
	case TagGenuine, TagLowConfidence, TagPromotional:
		return true
	}
	return false
}

// CredibilityRecord результат классификации отзыва. После записи не меняется.
type CredibilityRecord struct {
	Tag        CredibilityTag `json:"tag"`
	Confidence int            `json:"confidence"`
	Signals    []string       `json:"signals"`
}

// RestaurantSummary кешированная сводка отзывов ресторана
type RestaurantSummary struct {
	RestaurantID            string    `json:"restaurant_id"`
	SummaryText             string    `json:"summary"`
	ReviewCountAtGeneration int       `json:"review_count"`
	GeneratedAt             time.Time `json:"generated_at"`
}

// RestaurantScore рейтинг ресторана с учетом достоверности отзывов
type RestaurantScore struct {
	RestaurantID  string   `json:"restaurant_id"`
	WeightedScore *float64 `json:"weighted_score"` // nil если отзывов нет
	RawScore      *float64 `json:"raw_score"`
	Delta         *float64 `json:"delta"`
	ReviewCount   int      `json:"review_count"`
	AnalyzedCount int      `json:"analyzed_count"`
}

// CurrentUser пользователь из токена провайдера идентификации
type CurrentUser struct {
	ID             string
	DisplayName    string
	AccountCreated *time.Time
	Role           string
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventVoteApplied   = "VOTE_APPLIED"
	EventBadgeUnlocked = "BADGE_UNLOCKED"
)

// TrustEvent событие в топике trust_events
type TrustEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	ReviewID     string    `json:"review_id,omitempty"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
	AuthorID     string    `json:"author_id,omitempty"`
	VoterID      string    `json:"voter_id,omitempty"`
	Direction    string    `json:"direction,omitempty"`
	Text         string    `json:"text,omitempty"`
	Upvotes      int64     `json:"upvotes,omitempty"`
	Downvotes    int64     `json:"downvotes,omitempty"`
	NetScore     int64     `json:"net_score,omitempty"`
	BadgeIDs     []BadgeID `json:"badge_ids,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
