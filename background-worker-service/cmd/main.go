package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/config"
	"feedbackhub/background-worker-service/internal/app/background-worker/handler"
	"feedbackhub/background-worker-service/internal/app/background-worker/processor"
	"feedbackhub/background-worker-service/internal/app/background-worker/repository"
	"feedbackhub/background-worker-service/internal/app/background-worker/service"
	"feedbackhub/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger.Init("background-worker-service", os.Getenv("LOG_LEVEL"))
	logger.Info().Msg("Starting Background Worker Service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === РЕПОЗИТОРИИ ===
	archiveRepo := repository.NewArchiveRepository(db)
	statsRepo := repository.NewStatsRepository(redisClient, cfg.Redis.TTL)

	// === СЕРВИСЫ ===
	eventSvc := service.NewEventProcessingService(archiveRepo)
	statsSvc := service.NewStatsService(archiveRepo, statsRepo)

	// === KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		eventSvc,
	)
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()

	// === CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(statsSvc)
	if err := cronScheduler.Start(ctx, cfg.Cron.SummarySchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()

	// === HEALTHCHECK HTTP СЕРВЕР ===
	healthHandler := handler.NewHealthCheckHandler(db, redisClient, statsRepo)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("schedule", cfg.Cron.SummarySchedule).
		Msg("Background Worker Service is running")

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Background Worker Service...")
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	// Retry logic для устойчивости при запуске в Docker
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(10)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
