// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/leetboard/internal/adapters/repository"
	"github.com/okian/leetboard/internal/domain/leetcode"
	"github.com/okian/leetboard/internal/domain/model"
	"github.com/okian/leetboard/internal/domain/week"
	"github.com/okian/leetboard/internal/refresh"
	"github.com/okian/leetboard/internal/scheduler"
	"github.com/okian/leetboard/pkg/logger"
	"github.com/okian/leetboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRefreshInterval = 5 * time.Minute
	defaultFetchTimeout    = 10 * time.Second
	defaultRefreshWorkers  = 4
)

// Service wires the store, the external fetcher, the refresh engine and
// the scheduler behind the operations the HTTP API needs.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	fetcher leetcode.Fetcher
	engine  *refresh.Engine
	sched   *scheduler.Scheduler
	clock   scheduler.Clock

	// Configuration
	refreshInterval  time.Duration
	fetchTimeout     time.Duration
	refreshWorkers   int
	serializeRefresh bool

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the durable store. Defaults to the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFetcher sets the external score source.
func WithFetcher(f leetcode.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRefreshInterval sets the periodic refresh interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithFetchTimeout bounds each external lookup.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithRefreshWorkers sets how many lookups a refresh pass runs concurrently.
func WithRefreshWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.refreshWorkers = n
		}
	}
}

// WithSerializedRefresh makes overlapping refresh triggers coalesce.
func WithSerializedRefresh(serialize bool) Option {
	return func(s *Service) {
		s.serializeRefresh = serialize
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c scheduler.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		refreshInterval: defaultRefreshInterval,
		fetchTimeout:    defaultFetchTimeout,
		refreshWorkers:  defaultRefreshWorkers,
		clock:           scheduler.WallClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the schema and launches the scheduler timers. A schema
// failure is fatal: the service must not accept traffic without one.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "no store configured; using in-memory store")
	}
	if s.fetcher == nil {
		s.fetcher = leetcode.NewClient()
	}

	if err := s.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	s.engine = refresh.New(s.store, s.fetcher,
		refresh.WithFetchTimeout(s.fetchTimeout),
		refresh.WithWorkers(s.refreshWorkers),
		refresh.WithSerializedRuns(s.serializeRefresh),
	)
	s.sched = scheduler.New(s.engine,
		scheduler.WithInterval(s.refreshInterval),
		scheduler.WithClock(s.clock),
	)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.sched.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.Int("refreshWorkers", s.refreshWorkers),
	)
	return nil
}

// Stop shuts down the scheduler and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.cancel()
	s.sched.Wait()
	s.store.Close()
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Register creates a participant after verifying the handle is unused and
// resolvable. Neither rejection mutates the store.
func (s *Service) Register(ctx context.Context, name, department, handle string) error {
	name = strings.TrimSpace(name)
	department = strings.TrimSpace(department)
	handle = strings.TrimSpace(handle)
	if name == "" || department == "" || handle == "" {
		return ErrInvalidInput
	}
	if !model.ValidDepartment(department) {
		return fmt.Errorf("%w: unknown department %q", ErrInvalidInput, department)
	}

	if _, err := s.store.ParticipantByHandle(ctx, handle); err == nil {
		metrics.RecordRegistration("duplicate")
		return ErrDuplicateHandle
	} else if !errors.Is(err, repository.ErrNotFound) {
		metrics.RecordRegistration("error")
		return fmt.Errorf("check handle: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	score, err := s.fetcher.Fetch(fetchCtx, handle)
	if err != nil {
		// Any lookup failure rejects the registration; retrying later is
		// cheaper than a row that can never be refreshed.
		metrics.RecordRegistration("invalid")
		return fmt.Errorf("%w: %w", ErrUnknownHandle, err)
	}

	if _, err := s.store.CreateParticipant(ctx, model.Participant{
		Name:       name,
		Department: department,
		Handle:     handle,
		Score:      &score,
	}); err != nil {
		if errors.Is(err, repository.ErrDuplicateHandle) {
			metrics.RecordRegistration("duplicate")
			return ErrDuplicateHandle
		}
		metrics.RecordRegistration("error")
		return fmt.Errorf("create participant: %w", err)
	}

	metrics.RecordRegistration("created")
	s.logger.Info(ctx, "participant registered",
		logger.String("handle", handle),
		logger.Int("score", score),
	)
	return nil
}

// Leaderboard returns one page of the filtered, sorted leaderboard.
func (s *Service) Leaderboard(ctx context.Context, q repository.LeaderboardQuery) ([]model.Participant, repository.PageInfo, error) {
	return s.store.LeaderboardPage(ctx, q)
}

// TopImprovements returns this week's top positive improvements. On a
// Monday it first forces a refresh and snapshot pass so the young week is
// populated before answering.
func (s *Service) TopImprovements(ctx context.Context, limit int) ([]model.Improvement, error) {
	now := s.clock.Now()
	weekStart := week.Start(now)

	if now.Weekday() == time.Monday {
		metrics.RecordRefreshRun("catchup")
		if _, err := s.engine.RefreshAll(ctx); err != nil && !errors.Is(err, refresh.ErrRefreshInProgress) {
			return nil, fmt.Errorf("catch-up refresh: %w", err)
		}
		if err := s.engine.SnapshotWeek(ctx, weekStart); err != nil {
			return nil, fmt.Errorf("catch-up snapshots: %w", err)
		}
	}

	return s.store.TopImprovements(ctx, weekStart, limit)
}

// RefreshNow runs an on-demand refresh pass. Safe to call concurrently
// with the timers; see Engine for the overlap semantics.
func (s *Service) RefreshNow(ctx context.Context) (int, error) {
	metrics.RecordRefreshRun("demand")
	return s.engine.RefreshAll(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"refreshInterval": s.refreshInterval.String(),
		"refreshWorkers":  s.refreshWorkers,
	}

	if s.started {
		if total, err := s.store.Count(context.Background()); err == nil {
			stats["totalParticipants"] = total
			metrics.UpdateTotalParticipants(total)
		}
		if last := s.engine.LastRefresh(); !last.IsZero() {
			stats["lastRefresh"] = last.Format(time.RFC3339)
		}
	}

	return stats
}
