package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="trust-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Labels: service, method, path
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для микросервисов: от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbConnectionsOpen - количество открытых соединений с БД
var DbConnectionsOpen = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "db_connections_open",
		Help: "Number of open database connections",
	},
	[]string{"service", "state"}, // state: idle, in_use
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"}, // operation: get, set, setnx, mget, sadd, spop, scard
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (доверие и рейтинги)
// =============================================================================

// VotesApplied - примененные голоса по типу перехода
var VotesApplied = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_votes_applied_total",
		Help: "Total number of votes applied to the ledger",
	},
	[]string{"transition", "direction"}, // transition: fresh, switch, toggle_off
)

// VoteFailures - ошибки голосования по этапу
var VoteFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_vote_failures_total",
		Help: "Total number of failed vote operations",
	},
	[]string{"stage"}, // ledger, aggregate, author
)

// BadgesUnlocked - выданные бейджи
var BadgesUnlocked = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_badges_unlocked_total",
		Help: "Total number of badges unlocked",
	},
	[]string{"badge", "tier"},
)

// CredibilityComputed - вычисленные оценки достоверности
var CredibilityComputed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_credibility_computed_total",
		Help: "Total number of credibility records computed",
	},
	[]string{"tag", "outcome"}, // outcome: analyzed, fallback
)

// SummariesGenerated - регенерации сводок
var SummariesGenerated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_summaries_generated_total",
		Help: "Total number of restaurant summary generations",
	},
	[]string{"status"}, // success, failed
)

// AIRequestDuration - время вызова текстовой модели
var AIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "trust_ai_request_duration_seconds",
		Help:    "Duration of text model requests",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	},
	[]string{"operation", "status"},
)

// ReconciledRows - исправленные сверкой строки
var ReconciledRows = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trust_reconciled_rows_total",
		Help: "Total number of counters repaired by reconciliation",
	},
	[]string{"kind"}, // aggregate, author
)

// ReconcilePending - отзывы, ожидающие сверки
var ReconcilePending = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "trust_reconcile_pending",
		Help: "Number of reviews waiting for counter reconciliation",
	},
)
