package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/leetboard/internal/domain/model"
	"github.com/okian/leetboard/internal/domain/week"
)

// MemoryStore implements Store with plain maps behind a mutex. It backs
// unit tests and the no-Postgres dev mode; semantics mirror the Postgres
// implementation, including upsert behavior and sort order.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	participants map[int64]model.Participant
	byHandle     map[string]int64
	snapshots    map[int64]map[string]model.Snapshot // participant -> week key -> snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:       1,
		participants: make(map[int64]model.Participant),
		byHandle:     make(map[string]int64),
		snapshots:    make(map[int64]map[string]model.Snapshot),
	}
}

// Init is a no-op; there is no schema to create.
func (s *MemoryStore) Init(_ context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() {}

// CreateParticipant inserts a new participant.
func (s *MemoryStore) CreateParticipant(_ context.Context, p model.Participant) (model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byHandle[p.Handle]; taken {
		return model.Participant{}, ErrDuplicateHandle
	}

	p.ID = s.nextID
	s.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.participants[p.ID] = p
	s.byHandle[p.Handle] = p.ID
	return p, nil
}

// ParticipantByHandle returns the participant registered under handle.
func (s *MemoryStore) ParticipantByHandle(_ context.Context, handle string) (model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHandle[handle]
	if !ok {
		return model.Participant{}, ErrNotFound
	}
	return s.participants[id], nil
}

// ListParticipants returns every registered participant, ordered by id.
func (s *MemoryStore) ListParticipants(_ context.Context) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateScore overwrites one participant's current score.
func (s *MemoryStore) UpdateScore(_ context.Context, participantID int64, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantID]
	if !ok {
		return ErrNotFound
	}
	p.Score = &score
	s.participants[participantID] = p
	return nil
}

// LeaderboardPage returns one page of the filtered, sorted leaderboard.
func (s *MemoryStore) LeaderboardPage(_ context.Context, q LeaderboardQuery) ([]model.Participant, PageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	filtered := make([]model.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if q.Department != "" && p.Department != q.Department {
			continue
		}
		filtered = append(filtered, p)
	}

	// Unset scores rank lowest; ties break on id for a stable order.
	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i].ScoreOrZero(), filtered[j].ScoreOrZero()
		if a != b {
			if q.Ascending {
				return a < b
			}
			return a > b
		}
		return filtered[i].ID < filtered[j].ID
	})

	info := paginate(len(filtered), q)
	start := (info.Page - 1) * info.Limit
	if start >= len(filtered) {
		return []model.Participant{}, info, nil
	}
	end := start + info.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], info, nil
}

// LatestSnapshotBefore returns the latest snapshot strictly before weekStart.
func (s *MemoryStore) LatestSnapshotBefore(_ context.Context, participantID int64, weekStart time.Time) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := week.Key(weekStart)
	var best model.Snapshot
	found := false
	for key, snap := range s.snapshots[participantID] {
		if key >= cutoff {
			continue
		}
		if !found || key > week.Key(best.Week) {
			best = snap
			found = true
		}
	}
	if !found {
		return model.Snapshot{}, ErrNoSnapshot
	}
	return best, nil
}

// UpsertSnapshot inserts or overwrites the (participant, week) snapshot.
func (s *MemoryStore) UpsertSnapshot(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[snap.ParticipantID]; !ok {
		return ErrNotFound
	}
	weeks, ok := s.snapshots[snap.ParticipantID]
	if !ok {
		weeks = make(map[string]model.Snapshot)
		s.snapshots[snap.ParticipantID] = weeks
	}
	key := week.Key(snap.Week)
	if existing, ok := weeks[key]; ok {
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
	} else {
		snap.ID = s.nextID
		s.nextID++
		if snap.CreatedAt.IsZero() {
			snap.CreatedAt = time.Now()
		}
	}
	weeks[key] = snap
	return nil
}

// TopImprovements returns up to limit positive improvements for the week.
func (s *MemoryStore) TopImprovements(_ context.Context, weekStart time.Time, limit int) ([]model.Improvement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := week.Key(weekStart)
	out := make([]model.Improvement, 0, limit)
	for participantID, weeks := range s.snapshots {
		snap, ok := weeks[key]
		if !ok || snap.Improvement <= 0 {
			continue
		}
		p := s.participants[participantID]
		out = append(out, model.Improvement{
			Name:        p.Name,
			Handle:      p.Handle,
			Improvement: snap.Improvement,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Improvement != out[j].Improvement {
			return out[i].Improvement > out[j].Improvement
		}
		return out[i].Handle < out[j].Handle
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of registered participants.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants), nil
}

// paginate computes the pagination envelope for a total row count.
func paginate(total int, q LeaderboardQuery) PageInfo {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.PageSize
	if limit < 1 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return PageInfo{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
