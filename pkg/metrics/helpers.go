package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpGet   RedisOperation = "get"
	RedisOpSet   RedisOperation = "set"
	RedisOpSetNX RedisOperation = "setnx"
	RedisOpMGet  RedisOperation = "mget"
	RedisOpSAdd  RedisOperation = "sadd"
	RedisOpSPop  RedisOperation = "spop"
	RedisOpSCard RedisOperation = "scard"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	duration := time.Since(rt.start).Seconds()
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(duration)
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaMessageConsumed(service, topic, group string, processingDuration time.Duration) {
	KafkaMessagesConsumed.WithLabelValues(service, topic, group).Inc()
	KafkaConsumeDuration.WithLabelValues(service, topic).Observe(processingDuration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	RecordKafkaMessageProduced(kt.service, kt.topic, time.Since(kt.start))
}

func (kt *KafkaProduceTimer) Error() {
	RecordKafkaError(kt.service, kt.topic, "produce")
}

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	duration := time.Since(dt.start).Seconds()
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(duration)
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// SetDbConnections состояние пула соединений
func SetDbConnections(service string, idle, inUse int) {
	DbConnectionsOpen.WithLabelValues(service, "idle").Set(float64(idle))
	DbConnectionsOpen.WithLabelValues(service, "in_use").Set(float64(inUse))
}

// =============================================================================
// Доменные метрики
// =============================================================================

func RecordVoteApplied(transition, direction string) {
	VotesApplied.WithLabelValues(transition, direction).Inc()
}

func RecordVoteFailure(stage string) {
	VoteFailures.WithLabelValues(stage).Inc()
}

func RecordBadgeUnlocked(badge, tier string) {
	BadgesUnlocked.WithLabelValues(badge, tier).Inc()
}

func RecordCredibility(tag string, fallback bool) {
	outcome := "analyzed"
	if fallback {
		outcome = "fallback"
	}
	CredibilityComputed.WithLabelValues(tag, outcome).Inc()
}

func RecordSummaryGeneration(success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	SummariesGenerated.WithLabelValues(status).Inc()
}

func RecordAIRequest(operation, status string, duration time.Duration) {
	AIRequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func RecordReconciled(kind string, rows int64) {
	if rows > 0 {
		ReconciledRows.WithLabelValues(kind).Add(float64(rows))
	}
}

func SetReconcilePending(n int64) {
	ReconcilePending.Set(float64(n))
}
