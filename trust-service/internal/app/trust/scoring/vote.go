// Package scoring содержит чистые функции доверия: переходы голосов, бейджи,
// нормализацию оценки достоверности и взвешенный рейтинг. Без I/O.
package scoring

import "worththehype/trust-service/internal/app/trust/entity"

// Transition вычисляет изменение счетчиков и новое состояние голоса.
// existing == nil означает что голоса нет. Повтор того же направления снимает голос.
func Transition(existing *entity.Direction, requested entity.Direction) (entity.VoteDelta, *entity.Direction) {
	switch {
	case existing != nil && *existing == requested:
		if requested == entity.DirectionUp {
			return entity.VoteDelta{Up: -1, Down: 0, Net: -1}, nil
		}
		return entity.VoteDelta{Up: 0, Down: -1, Net: 1}, nil

	case existing != nil:
		next := requested
		if requested == entity.DirectionUp {
			return entity.VoteDelta{Up: 1, Down: -1, Net: 2}, &next
		}
		return entity.VoteDelta{Up: -1, Down: 1, Net: -2}, &next

	default:
		next := requested
		if requested == entity.DirectionUp {
			return entity.VoteDelta{Up: 1, Down: 0, Net: 1}, &next
		}
		return entity.VoteDelta{Up: 0, Down: 1, Net: -1}, &next
	}
}

// TransitionKind метка перехода для метрик и логов
func TransitionKind(existing *entity.Direction, requested entity.Direction) string {
	switch {
	case existing == nil:
		return "fresh"
	case *existing == requested:
		return "toggle_off"
	default:
		return "switch"
	}
}

// ApplyDelta применяет изменение к счетчикам. Отрицательные значения обрезаются до нуля,
// NetScore пересчитывается из итоговых счетчиков.
func ApplyDelta(agg entity.ReviewAggregate, delta entity.VoteDelta) entity.ReviewAggregate {
	agg.Upvotes = clampNonNegative(agg.Upvotes + delta.Up)
	agg.Downvotes = clampNonNegative(agg.Downvotes + delta.Down)
	agg.NetScore = agg.Upvotes - agg.Downvotes
	return agg
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
