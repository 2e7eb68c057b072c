package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"worththehype/trust-service/internal/app/trust/entity"
)

const (
	DefaultConfidence = 50
	MaxSignals        = 3
	maxSignalRunes    = 120
)

var ErrUnparsableAnalysis = errors.New("analysis output is not a JSON object")

// FallbackCredibility запись, которая сохраняется когда анализ не удался
func FallbackCredibility() entity.CredibilityRecord {
	return entity.CredibilityRecord{
		Tag:        entity.TagLowConfidence,
		Confidence: DefaultConfidence,
		Signals:    []string{"Analysis unavailable"},
	}
}

// ParseCredibility разбирает ответ анализатора. Обертка ```json снимается,
// поля нормализуются через NormalizeCredibility.
func ParseCredibility(raw string) (entity.CredibilityRecord, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return entity.CredibilityRecord{}, fmt.Errorf("%w: %v", ErrUnparsableAnalysis, err)
	}
	if fields == nil {
		return entity.CredibilityRecord{}, ErrUnparsableAnalysis
	}

	return NormalizeCredibility(fields), nil
}

// NormalizeCredibility приводит произвольные поля к валидной записи:
// confidence в [0,100] (50 если нет), неизвестный tag -> low_confidence,
// не больше трех непустых сигналов.
func NormalizeCredibility(fields map[string]any) entity.CredibilityRecord {
	record := entity.CredibilityRecord{
		Tag:        entity.TagLowConfidence,
		Confidence: normalizeConfidence(fields["confidence"]),
		Signals:    normalizeSignals(fields["signals"]),
	}

	if tag, ok := fields["tag"].(string); ok && entity.CredibilityTag(tag).Valid() {
		record.Tag = entity.CredibilityTag(tag)
	}

	return record
}

func normalizeConfidence(v any) int {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return DefaultConfidence
		}
		f = parsed
	default:
		return DefaultConfidence
	}

	if math.IsNaN(f) {
		return DefaultConfidence
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func normalizeSignals(v any) []string {
	signals := make([]string, 0, MaxSignals)

	list, ok := v.([]any)
	if !ok {
		return signals
	}

	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if r := []rune(s); len(r) > maxSignalRunes {
			s = string(r[:maxSignalRunes])
		}
		signals = append(signals, s)
		if len(signals) == MaxSignals {
			break
		}
	}
	return signals
}

// IsFallback запись получена не от модели, а из-за сбоя анализа
func IsFallback(record entity.CredibilityRecord) bool {
	fb := FallbackCredibility()
	return record.Tag == fb.Tag &&
		record.Confidence == fb.Confidence &&
		len(record.Signals) == 1 &&
		record.Signals[0] == fb.Signals[0]
}
