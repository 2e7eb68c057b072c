package scoring

import (
	"testing"

	"worththehype/trust-service/internal/app/trust/entity"

	"github.com/stretchr/testify/assert"
)

// ===================== WeightedScore Tests =====================

func TestWeightedScore_Empty(t *testing.T) {
	_, ok := WeightedScore(nil, nil)
	assert.False(t, ok)
}

func TestWeightedScore_LoneUnanalyzedReview(t *testing.T) {
	score, ok := WeightedScore([]RatedReview{{ReviewID: "r1", Rating: 7}}, nil)

	assert.True(t, ok)
	assert.InDelta(t, 7.0, score, 1e-9)
}

func TestWeightedScore_MixedTags(t *testing.T) {
	// Arrange
	reviews := []RatedReview{
		{ReviewID: "a", Rating: 8},
		{ReviewID: "b", Rating: 6},
		{ReviewID: "c", Rating: 4},
	}
	records := map[string]entity.CredibilityRecord{
		"a": {Tag: entity.TagGenuine},
		"b": {Tag: entity.TagPromotional},
	}

	// Act
	score, ok := WeightedScore(reviews, records)

	// Assert - (8*1.0 + 6*0.2 + 4*0.6) / 1.8
	assert.True(t, ok)
	assert.InDelta(t, 11.6/1.8, score, 1e-9)
	assert.Equal(t, 6.4, RoundScore(score))
}

func TestWeightedScore_AllGenuineEqualsMean(t *testing.T) {
	reviews := []RatedReview{{ReviewID: "a", Rating: 10}, {ReviewID: "b", Rating: 5}}
	records := map[string]entity.CredibilityRecord{
		"a": {Tag: entity.TagGenuine},
		"b": {Tag: entity.TagGenuine},
	}

	score, ok := WeightedScore(reviews, records)
	raw, _ := RawScore(reviews)

	assert.True(t, ok)
	assert.InDelta(t, raw, score, 1e-9)
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 0.6, Weight(nil))
	assert.Equal(t, 1.0, Weight(&entity.CredibilityRecord{Tag: entity.TagGenuine}))
	assert.Equal(t, 0.6, Weight(&entity.CredibilityRecord{Tag: entity.TagLowConfidence}))
	assert.Equal(t, 0.2, Weight(&entity.CredibilityRecord{Tag: entity.TagPromotional}))
	assert.Equal(t, 0.6, Weight(&entity.CredibilityRecord{Tag: "unknown"}))
}

func TestRawScore_Empty(t *testing.T) {
	_, ok := RawScore(nil)
	assert.False(t, ok)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 6.3, RoundScore(6.25))
	assert.Equal(t, 7.0, RoundScore(6.96))
	assert.Equal(t, 0.0, RoundScore(0.04))
}
