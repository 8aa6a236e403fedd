package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/repository"
	"feedbackhub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthCheckHandler отвечает на health/readiness/liveness запросы
type HealthCheckHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	statsRepo   repository.StatsRepository
}

func NewHealthCheckHandler(
	db *gorm.DB,
	redisClient *redis.Client,
	statsRepo repository.StatsRepository,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:          db,
		redisClient: redisClient,
		statsRepo:   statsRepo,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkDatabase(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	if err := h.checkRedis(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["redis"] = "healthy"
	}

	// Отсутствие сводки не делает сервис нездоровым, только предупреждает
	if err := h.checkDailySummary(ctx); err != nil {
		checks["daily_summary"] = "warning: " + err.Error()
	} else {
		checks["daily_summary"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.checkRedis(ctx); err != nil {
		http.Error(w, "redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthCheckHandler) checkRedis(ctx context.Context) error {
	return h.redisClient.Ping(ctx).Err()
}

func (h *HealthCheckHandler) checkDailySummary(ctx context.Context) error {
	date := time.Now().UTC().Format("2006-01-02")
	summary, err := h.statsRepo.GetDailySummary(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrSummaryNotFound) {
			return errors.New("summary for today not built yet")
		}
		return err
	}

	if age := time.Since(summary.UpdatedAt); age > 2*time.Hour {
		logger.Warn().Dur("age", age).Msg("Daily summary is outdated")
	}

	return nil
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
}
