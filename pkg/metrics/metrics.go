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
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
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
// Метрики хранилищ (MongoDB / PostgreSQL)
// =============================================================================

// StoreQueryDuration - время выполнения запросов к хранилищу документов/БД
var StoreQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Duration of data store queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// StoreErrors - счётчик ошибок хранилища
var StoreErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of data store errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
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

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (специфичные для Feedbackhub)
// =============================================================================

// --- Auth Service ---

// AuthRegistrations - регистрации пользователей
var AuthRegistrations = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of user registrations",
	},
)

// AuthLogins - попытки входа
var AuthLogins = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts",
	},
	[]string{"status"}, // success, failed, domain_rejected
)

// --- Feedback Service ---

// FeedbackSubmitted - успешно отправленные отзывы
var FeedbackSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "feedback_submitted_total",
		Help: "Total number of feedback entries submitted",
	},
	[]string{"rating"}, // 1..5
)

// FeedbackDeleted - удалённые отзывы
var FeedbackDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "feedback_deleted_total",
		Help: "Total number of feedback entries deleted by their authors",
	},
)

// CommentsAdded - добавленные комментарии
var CommentsAdded = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "feedback_comments_added_total",
		Help: "Total number of comments added to feedback entries",
	},
)

// StreamSubscribers - активные live-подписки (SSE)
var StreamSubscribers = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "stream_subscribers",
		Help: "Current number of active live query subscribers",
	},
	[]string{"topic"}, // feed, comments
)

// StreamSnapshotsDelivered - доставленные полные снапшоты
var StreamSnapshotsDelivered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stream_snapshots_delivered_total",
		Help: "Total number of full snapshots delivered to subscribers",
	},
	[]string{"topic"},
)

// ExportsGenerated - выгрузки CSV администратором
var ExportsGenerated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "admin_exports_generated_total",
		Help: "Total number of CSV exports generated",
	},
)
