package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/robfig/cron/v3"
)

// Workers owns the cron scheduler of every background job.
type Workers struct {
	workers []Worker
	cron    *cron.Cron

	logger *logger.Logger
}

// NewWorkers schedules the jobs enabled in cfg. An empty purge schedule or a
// non-positive retention disables the purge job.
func NewWorkers(cfg config.Workers, storages *store.Storages, logger *logger.Logger) (*Workers, error) {
	cronLog := cronLogger{logger: logger}
	w := &Workers{
		// Recover must sit inside SkipIfStillRunning, which does not release
		// its slot when the wrapped job panics.
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLog),
			cron.Recover(cronLog),
		)),
		logger: logger,
	}

	if cfg.PurgeSchedule != "" && cfg.PurgeRetention > 0 {
		purge := NewPurgeWorker(storages.Items, cfg.PurgeRetention, logger)
		if err := w.schedule(cfg.PurgeSchedule, purge); err != nil {
			return nil, fmt.Errorf("error scheduling purge worker: %w", err)
		}
		logger.Info().
			Str("schedule", cfg.PurgeSchedule).
			Dur("retention", cfg.PurgeRetention).
			Msg("purge worker is scheduled")
	}

	return w, nil
}

func (w *Workers) schedule(spec string, worker Worker) error {
	if _, err := w.cron.AddJob(spec, cron.FuncJob(worker.Run)); err != nil {
		return err
	}
	w.workers = append(w.workers, worker)
	return nil
}

// Run executes every worker once, in registration order.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Start launches the scheduler in its own goroutine.
func (w *Workers) Start() {
	w.logger.Info().Int("workers", len(w.workers)).Msg("starting workers")
	w.cron.Start()
}

// Stop stops scheduling new runs and waits for running jobs until ctx is done.
func (w *Workers) Stop(ctx context.Context) error {
	select {
	case <-w.cron.Stop().Done():
		w.logger.Info().Msg("workers stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes the scheduler's own messages to zerolog.
type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Err(err).Fields(keysAndValues).Msg(msg)
}
