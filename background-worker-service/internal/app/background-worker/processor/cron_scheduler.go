package processor

import (
	"context"
	"time"

	"feedbackhub/background-worker-service/internal/app/background-worker/service"
	"feedbackhub/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически пересчитывает дневную сводку по отзывам
type CronScheduler struct {
	cron     *cron.Cron
	statsSvc service.StatsServiceInterface
}

func NewCronScheduler(statsSvc service.StatsServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:     cron.New(),
		statsSvc: statsSvc,
	}
}

// Start регистрирует задачу по расписанию и сразу выполняет первый пересчет
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runSummaryJob(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	// Начальный пересчет, чтобы сводка была доступна сразу после старта
	s.runSummaryJob(ctx)

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих задач
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) runSummaryJob(ctx context.Context) {
	if _, err := s.statsSvc.BuildDailySummary(ctx, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Msg("Failed to build daily summary")
	}
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
