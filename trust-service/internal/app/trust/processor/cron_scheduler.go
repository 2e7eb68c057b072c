package processor

import (
	"context"

	"worththehype/pkg/logger"
	"worththehype/trust-service/internal/app/trust/service"

	"github.com/robfig/cron/v3"
)

// Очередь сверки после частичных сбоев разбирается чаще полной сверки
const pendingSchedule = "@every 1m"

type CronScheduler struct {
	cron      *cron.Cron
	reconcile service.ReconcileServiceInterface
}

func NewCronScheduler(reconcile service.ReconcileServiceInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))

	return &CronScheduler{
		cron:      c,
		reconcile: reconcile,
	}
}

// Start регистрирует полную сверку по schedule и разбор очереди раз в минуту,
// затем сразу разбирает очередь, накопившуюся до старта
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	if _, err := s.cron.AddFunc(schedule, func() { s.reconcileAll(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(pendingSchedule, func() { s.reconcilePending(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	s.reconcilePending(ctx)
	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) reconcileAll(ctx context.Context) {
	logger.Info().Msg("Cron job triggered: full counter reconciliation")
	if _, err := s.reconcile.ReconcileAll(ctx); err != nil {
		logger.Error().Err(err).Msg("Full reconciliation failed")
	}
}

func (s *CronScheduler) reconcilePending(ctx context.Context) {
	if _, err := s.reconcile.ReconcilePending(ctx); err != nil {
		logger.Error().Err(err).Msg("Pending reconciliation failed")
	}
}

// cronLogger пишет события cron через zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
