// Package scheduler runs the collection cycle periodically in server mode.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// CycleFunc runs one collect-and-save cycle.
type CycleFunc func(ctx context.Context) error

// Scheduler triggers the collection cycle on a fixed interval. Jobs run in
// singleton mode: if a cycle overruns the interval the next tick is skipped
// rather than racing it on latest.json.
type Scheduler struct {
	scheduler *gocron.Scheduler
	run       CycleFunc
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

// defaultInterval is used when the configured interval is shorter than the
// one-minute resolution the schedule runs at.
const defaultInterval = 15 * time.Minute

// New creates a scheduler running the cycle every interval. Intervals under a
// minute fall back to the default.
func New(interval time.Duration, logger zerolog.Logger, run CycleFunc) *Scheduler {
	if interval < time.Minute {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		run:       run,
		interval:  interval,
		timeout:   5 * time.Minute,
		logger:    logger,
	}
}

// Interval returns the effective collection interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start schedules the periodic cycle and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(int(s.interval.Minutes())).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.logger.Info().Msg("scheduled collection cycle starting")
		if err := s.run(ctx); err != nil {
			s.logger.Error().Err(err).Msg("scheduled collection cycle failed")
			return
		}
		s.logger.Info().Msg("scheduled collection cycle completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
