package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"worththehype/pkg/logger"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/infrastructure"

	"github.com/google/uuid"
)

// eventPublisher отправляет события в trust_events.
// Ошибки Kafka только логируются: событие не должно ломать голос или отзыв.
type eventPublisher struct {
	producer infrastructure.MessagePublisher
}

func newEventPublisher(producer infrastructure.MessagePublisher) *eventPublisher {
	return &eventPublisher{producer: producer}
}

func (p *eventPublisher) publish(ctx context.Context, key string, event entity.TrustEvent) {
	if p == nil || p.producer == nil {
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.send(ctx, key, event); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Str("key", key).
			Msg("Failed to publish trust event")
	}
}

func (p *eventPublisher) send(ctx context.Context, key string, event entity.TrustEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// ключ = id отзыва (или автора), события одного субъекта идут по порядку
	if err := p.producer.PublishMessage(ctx, key, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}
	return nil
}
