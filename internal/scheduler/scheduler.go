// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work. ctx is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs registered jobs until its Run context is cancelled.
// Overlapping runs of the same job are skipped and panics are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
	ctx    context.Context
}

// New creates a Scheduler that logs through logger.
func New(logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    context.Background(),
	}
}

// Register adds job under name on the standard five-field cron spec or a
// descriptor such as "@daily" or "@every 1h". It must be called before Run.
func (s *Scheduler) Register(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.logger.Error().Err(err).Str("job", name).Msg("job failed")
			return
		}
		s.logger.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}

	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info().Int("jobs", s.Jobs()).Msg("scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
