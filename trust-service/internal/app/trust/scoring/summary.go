package scoring

import (
	"fmt"
	"strings"

	"worththehype/trust-service/internal/app/trust/entity"
)

const (
	MinReviewsForSummary = 2
	MaxSummaryInput      = 20
)

// IsStale сводка устарела если ее нет или число отзывов изменилось
func IsStale(cached *entity.RestaurantSummary, currentCount int) bool {
	return cached == nil || cached.ReviewCountAtGeneration != currentCount
}

// SummaryInput первые MaxSummaryInput отзывов в исходном порядке
func SummaryInput(reviews []entity.Review) []entity.Review {
	if len(reviews) > MaxSummaryInput {
		return reviews[:MaxSummaryInput]
	}
	return reviews
}

// SummaryCorpus текст для модели: по строке на отзыв, без имен авторов
func SummaryCorpus(reviews []entity.Review) string {
	lines := make([]string, 0, len(reviews))
	for i, r := range reviews {
		lines = append(lines, fmt.Sprintf("Review %d [Hype: %d/10, Reality: %d/10]: %q",
			i+1, r.HypeRating, r.RealityRating, r.Text))
	}
	return strings.Join(lines, "\n")
}
