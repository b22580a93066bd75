// Package refresh pulls fresh scores from the external source and maintains
// the weekly snapshot history.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/leetboard/internal/adapters/repository"
	"github.com/okian/leetboard/internal/domain/leetcode"
	"github.com/okian/leetboard/internal/domain/model"
	"github.com/okian/leetboard/pkg/logger"
	"github.com/okian/leetboard/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultFetchTimeout = 10 * time.Second
	defaultWorkers      = 4
)

// ErrRefreshInProgress reports a coalesced run: with serialized runs enabled,
// a refresh that overlaps an in-flight one becomes a no-op.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Engine refreshes participant scores and computes weekly snapshots.
//
// Each participant update is an independent unit: a failed or timed-out
// lookup leaves that participant's score unchanged and never aborts the
// batch. By default overlapping runs are allowed and resolve last-writer-
// wins; WithSerializedRuns makes overlapping triggers coalesce instead.
type Engine struct {
	store        repository.Store
	fetcher      leetcode.Fetcher
	fetchTimeout time.Duration
	workers      int
	serialize    bool

	running atomic.Bool
	lastRun atomic.Int64 // unix seconds of the last completed refresh

	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithFetchTimeout bounds each external lookup.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithWorkers sets how many lookups run concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSerializedRuns makes overlapping refresh triggers coalesce into a
// no-op instead of issuing duplicate external calls.
func WithSerializedRuns(serialize bool) Option {
	return func(e *Engine) {
		e.serialize = serialize
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine over the given store and fetcher.
func New(store repository.Store, fetcher leetcode.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		fetcher:      fetcher,
		fetchTimeout: defaultFetchTimeout,
		workers:      defaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("refresh")
	}
	return e
}

// RefreshAll re-fetches every participant's score and overwrites the stored
// value on success. Lookup failures and not-found handles are logged and
// skipped. It returns the number of scores updated; the only hard failure
// is an unreachable store.
func (e *Engine) RefreshAll(ctx context.Context) (int, error) {
	if e.serialize {
		if !e.running.CompareAndSwap(false, true) {
			e.logger.Info(ctx, "refresh coalesced into running pass")
			return 0, ErrRefreshInProgress
		}
		defer e.running.Store(false)
	}

	runID := uuid.NewString()
	start := time.Now()
	e.logger.Info(ctx, "refresh pass starting", logger.String("run", runID))

	participants, err := e.store.ListParticipants(ctx)
	if err != nil {
		return 0, fmt.Errorf("list participants: %w", err)
	}

	jobs := make(chan model.Participant)
	var updated atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if e.refreshOne(ctx, runID, p) {
					updated.Add(1)
				}
			}
		}()
	}

	for _, p := range participants {
		select {
		case jobs <- p:
		case <-ctx.Done():
			// Stop handing out work; in-flight lookups finish on their own.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	e.lastRun.Store(time.Now().Unix())
	metrics.RecordRefreshDuration(elapsed.Seconds())
	metrics.UpdateLastRefreshUnix(float64(time.Now().Unix()))
	e.logger.Info(ctx, "refresh pass finished",
		logger.String("run", runID),
		logger.Int("participants", len(participants)),
		logger.Int64("updated", updated.Load()),
		logger.Duration("elapsed", elapsed),
	)
	return int(updated.Load()), nil
}

// refreshOne fetches and overwrites a single participant's score. Returns
// true when the score was updated.
func (e *Engine) refreshOne(ctx context.Context, runID string, p model.Participant) bool {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	score, err := e.fetcher.Fetch(fetchCtx, p.Handle)
	if err != nil {
		// Not-found and timeout alike: leave the stored score untouched.
		metrics.RecordFetchError()
		e.logger.Warn(ctx, "score lookup failed; keeping previous score",
			logger.String("run", runID),
			logger.String("handle", p.Handle),
			logger.Error(err),
		)
		return false
	}

	if err := e.store.UpdateScore(ctx, p.ID, score); err != nil {
		e.logger.Error(ctx, "score update failed",
			logger.String("run", runID),
			logger.String("handle", p.Handle),
			logger.Error(err),
		)
		return false
	}
	metrics.RecordScoreUpdate()
	return true
}

// SnapshotWeek upserts one snapshot per participant for the week starting
// at weekStart, diffing against the most recent strictly-prior snapshot.
// Call it after a RefreshAll pass so scores are current. Re-running within
// the same week overwrites the week's rows without drifting the delta.
func (e *Engine) SnapshotWeek(ctx context.Context, weekStart time.Time) error {
	participants, err := e.store.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}

	for _, p := range participants {
		priorScore := 0
		prior, err := e.store.LatestSnapshotBefore(ctx, p.ID, weekStart)
		switch {
		case err == nil:
			priorScore = prior.Score
		case errors.Is(err, repository.ErrNoSnapshot):
			// First snapshot for this participant; improvement is the full score.
		default:
			return fmt.Errorf("prior snapshot for %s: %w", p.Handle, err)
		}

		score := p.ScoreOrZero()
		snap := model.Snapshot{
			ParticipantID: p.ID,
			Week:          weekStart,
			Score:         score,
			Improvement:   score - priorScore,
		}
		if err := e.store.UpsertSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("upsert snapshot for %s: %w", p.Handle, err)
		}
		metrics.RecordSnapshotUpsert()
	}

	e.logger.Info(ctx, "weekly snapshots written",
		logger.Time("week", weekStart),
		logger.Int("participants", len(participants)),
	)
	return nil
}

// LastRefresh returns when the last refresh pass completed, or the zero
// time if none has run yet.
func (e *Engine) LastRefresh() time.Time {
	ts := e.lastRun.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}
