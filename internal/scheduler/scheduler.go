// Package scheduler drives the refresh engine on its periodic and weekly
// timers.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/leetboard/internal/domain/week"
	"github.com/okian/leetboard/internal/refresh"
	"github.com/okian/leetboard/pkg/logger"
	"github.com/okian/leetboard/pkg/metrics"
)

// Default scheduler configuration constants.
const (
	defaultRefreshInterval = 5 * time.Minute
	weeklyPeriod           = 7 * 24 * time.Hour
)

// Runner is the slice of the refresh engine the scheduler drives.
type Runner interface {
	RefreshAll(ctx context.Context) (int, error)
	SnapshotWeek(ctx context.Context, weekStart time.Time) error
}

// Scheduler owns two independent timers: a fixed-interval score refresh and
// a weekly boundary pass that also writes snapshots.
//
// The weekly timer first fires at the next Monday 00:00 (server-local) and
// then rearms on a fixed 7-day period. The fixed rearm does not
// resynchronize to wall-clock Monday across clock changes or missed ticks;
// that matches the behavior this service replaced.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	clock    Clock
	logger   logger.Logger
	wg       sync.WaitGroup
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the periodic refresh interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Scheduler over the given runner.
func New(runner Runner, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:   runner,
		interval: defaultRefreshInterval,
		clock:    WallClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	return s
}

// Start launches both timer loops. They run until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(2)
	go s.periodicLoop(ctx)
	go s.weeklyLoop(ctx)
}

// Wait blocks until both timer loops have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// periodicLoop fires a refresh pass every interval, forever.
func (s *Scheduler) periodicLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.interval):
			metrics.RecordRefreshRun("periodic")
			if _, err := s.runner.RefreshAll(ctx); err != nil && !errors.Is(err, refresh.ErrRefreshInProgress) {
				// No immediate retry; the next tick is the retry.
				s.logger.Error(ctx, "periodic refresh failed", logger.Error(err))
			}
		}
	}
}

// weeklyLoop fires at the next Monday 00:00, then on a fixed 7-day period.
func (s *Scheduler) weeklyLoop(ctx context.Context) {
	defer s.wg.Done()

	now := s.clock.Now()
	first := week.NextBoundary(now)
	s.logger.Info(ctx, "weekly timer armed", logger.Time("boundary", first))

	wait := first.Sub(now)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
			s.fireWeekly(ctx)
		}
		wait = weeklyPeriod
	}
}

// fireWeekly runs a refresh pass and then writes the week's snapshots.
// Snapshots are skipped when the refresh itself fails hard; the next tick
// retries with fresh scores.
func (s *Scheduler) fireWeekly(ctx context.Context) {
	metrics.RecordRefreshRun("weekly")

	if _, err := s.runner.RefreshAll(ctx); err != nil && !errors.Is(err, refresh.ErrRefreshInProgress) {
		s.logger.Error(ctx, "weekly refresh failed; skipping snapshots", logger.Error(err))
		return
	}

	weekStart := week.Start(s.clock.Now())
	if err := s.runner.SnapshotWeek(ctx, weekStart); err != nil {
		s.logger.Error(ctx, "weekly snapshot pass failed",
			logger.Time("week", weekStart),
			logger.Error(err),
		)
	}
}
