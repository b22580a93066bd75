// Package repository defines the durable leaderboard store interface and
// its Postgres and in-memory implementations.
package repository

import (
	"context"
	"time"

	"github.com/okian/leetboard/internal/domain/model"
)

// LeaderboardQuery describes a paginated leaderboard read.
type LeaderboardQuery struct {
	Search     string // substring match on participant name, case-insensitive
	Department string // exact match when non-empty
	Ascending  bool   // sort by score; default is descending
	Page       int    // 1-indexed
	PageSize   int
}

// PageInfo describes the pagination envelope of a leaderboard read.
type PageInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Store provides durable access to participants and weekly snapshots.
//
// Writes to a participant's score are plain overwrites and each row is an
// independent unit; there is no cross-row transactionality. UpsertSnapshot
// must be a single atomic conditional write keyed on (participant, week).
type Store interface {
	// Init creates the schema if missing. A failure here is fatal to the
	// process; the service must not accept traffic without a schema.
	Init(ctx context.Context) error

	// CreateParticipant inserts a new participant and returns it with its
	// assigned id. Returns ErrDuplicateHandle when the handle is taken.
	CreateParticipant(ctx context.Context, p model.Participant) (model.Participant, error)

	// ParticipantByHandle returns the participant registered under handle.
	// Returns ErrNotFound when no such participant exists.
	ParticipantByHandle(ctx context.Context, handle string) (model.Participant, error)

	// ListParticipants returns every registered participant.
	ListParticipants(ctx context.Context) ([]model.Participant, error)

	// UpdateScore overwrites one participant's current score.
	UpdateScore(ctx context.Context, participantID int64, score int) error

	// LeaderboardPage returns one page of the filtered, sorted leaderboard
	// together with its pagination envelope.
	LeaderboardPage(ctx context.Context, q LeaderboardQuery) ([]model.Participant, PageInfo, error)

	// LatestSnapshotBefore returns the chronologically latest snapshot with
	// week strictly before weekStart. Returns ErrNoSnapshot when none exists.
	LatestSnapshotBefore(ctx context.Context, participantID int64, weekStart time.Time) (model.Snapshot, error)

	// UpsertSnapshot inserts or overwrites the (participant, week) snapshot.
	UpsertSnapshot(ctx context.Context, snap model.Snapshot) error

	// TopImprovements returns up to limit positive improvements for the given
	// week, joined to participant name and handle, ordered descending.
	TopImprovements(ctx context.Context, weekStart time.Time, limit int) ([]model.Improvement, error)

	// Count returns the number of registered participants.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close()
}
