package scoring

import (
	"math"

	"worththehype/trust-service/internal/app/trust/entity"
)

// Вес отзыва без записи о достоверности совпадает с весом low_confidence
const DefaultWeight = 0.6

var tagWeights = map[entity.CredibilityTag]float64{
	entity.TagGenuine:       1.0,
	entity.TagLowConfidence: 0.6,
	entity.TagPromotional:   0.2,
}

// RatedReview отзыв с оценкой реальности, участвующий в расчете
type RatedReview struct {
	ReviewID string
	Rating   float64
}

// Weight вес отзыва по записи достоверности
func Weight(record *entity.CredibilityRecord) float64 {
	if record == nil {
		return DefaultWeight
	}
	if w, ok := tagWeights[record.Tag]; ok {
		return w
	}
	return DefaultWeight
}

// WeightedScore средневзвешенная оценка. ok == false когда суммарный вес равен нулю.
func WeightedScore(reviews []RatedReview, records map[string]entity.CredibilityRecord) (float64, bool) {
	var weightedSum, totalWeight float64

	for _, r := range reviews {
		var w float64
		if rec, ok := records[r.ReviewID]; ok {
			w = Weight(&rec)
		} else {
			w = Weight(nil)
		}
		weightedSum += r.Rating * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// RawScore обычное среднее без учета достоверности
func RawScore(reviews []RatedReview) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews)), true
}

// RoundScore округление до одного знака после запятой
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
