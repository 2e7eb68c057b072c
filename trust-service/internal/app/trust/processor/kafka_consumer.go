package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/service"

	"github.com/segmentio/kafka-go"
)

const serviceName = "trust-service"

// Попытки обработать одно сообщение до того, как consumer сдвинет offset дальше
const processAttempts = 3

var errConsumerStopped = errors.New("consumer stopped")

// messageReader подмножество kafka.Reader, которое использует consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaConsumer заранее считает достоверность новых отзывов из топика trust_events
type KafkaConsumer struct {
	reader      messageReader
	topic       string
	groupID     string
	credibility service.CredibilityServiceInterface
	backoff     time.Duration
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	credibility service.CredibilityServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.FirstOffset, // новые группы дочитывают отзывы с начала
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:      reader,
		topic:       topic,
		groupID:     groupID,
		credibility: credibility,
		backoff:     500 * time.Millisecond,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}

				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			start := time.Now()
			if err := c.processWithRetry(ctx, message); err != nil {
				if ctx.Err() != nil || errors.Is(err, errConsumerStopped) {
					return
				}
				// offset все равно сдвинется следующим коммитом, запись досчитает GET /credibility
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				logger.Error().Err(err).Int64("offset", message.Offset).Msg("Giving up on message")
			} else {
				metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Msg("Error committing message")
			}
		}
	}
}

// processWithRetry повторяет обработку на месте с растущей паузой
func (c *KafkaConsumer) processWithRetry(ctx context.Context, message kafka.Message) error {
	var err error
	for attempt := 1; attempt <= processAttempts; attempt++ {
		if err = c.processMessage(ctx, message); err == nil {
			return nil
		}
		if attempt == processAttempts {
			break
		}

		logger.Warn().Err(err).Int64("offset", message.Offset).Int("attempt", attempt).Msg("Retrying message")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopChan:
			return errConsumerStopped
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	return err
}

// processMessage обрабатывает одно событие. Интересует только REVIEW_CREATED,
// остальные события топика пропускаются.
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.TrustEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		// битое сообщение не исправится при повторе
		logger.Warn().Err(err).Int64("offset", message.Offset).Msg("Skipping malformed trust event")
		return nil
	}

	if event.EventType != entity.EventReviewCreated {
		return nil
	}

	if event.ReviewID == "" {
		logger.Warn().Int64("offset", message.Offset).Msg("REVIEW_CREATED without review_id")
		return nil
	}

	logger.Debug().
		Str("review_id", event.ReviewID).
		Int("partition", message.Partition).
		Int64("offset", message.Offset).
		Msg("Precomputing credibility")

	record, err := c.credibility.GetOrCompute(ctx, event.ReviewID, event.Text)
	if err != nil {
		return fmt.Errorf("failed to compute credibility for %s: %w", event.ReviewID, err)
	}

	logger.Info().
		Str("review_id", event.ReviewID).
		Str("tag", string(record.Tag)).
		Int("confidence", record.Confidence).
		Msg("Credibility ready")

	return nil
}

func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
