// Package scheduler runs the periodic draw check on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"donorhub/internal/draw/models"
)

const jobTimeout = 2 * time.Minute

// Runner records a draw when the current window has elapsed.
type Runner interface {
	RunIfDue(ctx context.Context) (*models.Record, error)
}

// Scheduler wraps a seconds-resolution cron in UTC.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New registers the draw check under spec, a six-field cron expression.
func New(spec string, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		logger: logger,
	}
	if err := s.addFunc(spec, "draw.run_if_due", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		record, err := runner.RunIfDue(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "scheduled draw failed", "error", err)
			return
		}
		if record != nil {
			logger.InfoContext(ctx, "scheduled draw recorded",
				"draw_id", record.ID.String(),
				"entrants", len(record.Entrants),
			)
		}
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) addFunc(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer s.recoverJobPanic(name)
		start := time.Now()
		fn()
		s.logger.Debug("scheduler job finished", "job", name, "cost", time.Since(start))
	})
	if err != nil {
		s.logger.Error("register scheduler job failed", "job", name, "spec", spec, "error", err)
	}
	return err
}

func (s *Scheduler) recoverJobPanic(name string) {
	if recovered := recover(); recovered != nil {
		s.logger.Error("scheduler job panic recovered", "job", name, "panic", recovered)
	}
}

// Run starts the cron and blocks until ctx is done, then waits briefly for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(2 * time.Second):
	}
	return nil
}
