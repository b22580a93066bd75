package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/leetboard/internal/domain/model"
)

// Postgres unique_violation error code.
const pgUniqueViolation = "23505"

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to url and returns a ready store. Init must
// still be called before serving traffic.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Init creates the schema if missing.
func (s *PostgresStore) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS leaderboard (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    department VARCHAR(50) NOT NULL,
    leetcode_username VARCHAR(100) NOT NULL UNIQUE,
    score INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS weekly_snapshots (
    id SERIAL PRIMARY KEY,
    participant_id INTEGER NOT NULL REFERENCES leaderboard(id),
    week DATE NOT NULL,
    score INTEGER NOT NULL,
    improvement INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (participant_id, week)
);`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// CreateParticipant inserts a new participant.
func (s *PostgresStore) CreateParticipant(ctx context.Context, p model.Participant) (model.Participant, error) {
	const stmt = `INSERT INTO leaderboard (name, department, leetcode_username, score)
        VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	row := s.pool.QueryRow(ctx, stmt, p.Name, p.Department, p.Handle, p.Score)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.Participant{}, ErrDuplicateHandle
		}
		return model.Participant{}, fmt.Errorf("insert participant: %w", err)
	}
	return p, nil
}

// ParticipantByHandle returns the participant registered under handle.
func (s *PostgresStore) ParticipantByHandle(ctx context.Context, handle string) (model.Participant, error) {
	const query = `SELECT id, name, department, leetcode_username, score, created_at
        FROM leaderboard WHERE leetcode_username = $1`

	var p model.Participant
	row := s.pool.QueryRow(ctx, query, handle)
	if err := row.Scan(&p.ID, &p.Name, &p.Department, &p.Handle, &p.Score, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Participant{}, ErrNotFound
		}
		return model.Participant{}, fmt.Errorf("query participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns every registered participant, ordered by id.
func (s *PostgresStore) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	const query = `SELECT id, name, department, leetcode_username, score, created_at
        FROM leaderboard ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

// UpdateScore overwrites one participant's current score.
func (s *PostgresStore) UpdateScore(ctx context.Context, participantID int64, score int) error {
	const stmt = `UPDATE leaderboard SET score = $1 WHERE id = $2`

	tag, err := s.pool.Exec(ctx, stmt, score, participantID)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LeaderboardPage returns one page of the filtered, sorted leaderboard.
func (s *PostgresStore) LeaderboardPage(ctx context.Context, q LeaderboardQuery) ([]model.Participant, PageInfo, error) {
	where := ""
	args := []interface{}{}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where = " WHERE name ILIKE $" + strconv.Itoa(len(args))
	}
	if q.Department != "" {
		args = append(args, q.Department)
		clause := "department = $" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leaderboard"+where, args...).Scan(&total); err != nil {
		return nil, PageInfo{}, fmt.Errorf("count leaderboard: %w", err)
	}
	info := paginate(total, q)

	// Unset scores rank lowest in either direction; id breaks ties.
	order := " ORDER BY score DESC NULLS LAST, id"
	if q.Ascending {
		order = " ORDER BY score ASC NULLS FIRST, id"
	}
	args = append(args, info.Limit, (info.Page-1)*info.Limit)
	query := "SELECT id, name, department, leetcode_username, score, created_at FROM leaderboard" +
		where + order +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, PageInfo{}, fmt.Errorf("query leaderboard page: %w", err)
	}
	defer rows.Close()

	participants, err := scanParticipants(rows)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return participants, info, nil
}

// LatestSnapshotBefore returns the latest snapshot strictly before weekStart.
func (s *PostgresStore) LatestSnapshotBefore(ctx context.Context, participantID int64, weekStart time.Time) (model.Snapshot, error) {
	const query = `SELECT id, participant_id, week, score, improvement, created_at
        FROM weekly_snapshots
        WHERE participant_id = $1 AND week < $2
        ORDER BY week DESC LIMIT 1`

	var snap model.Snapshot
	row := s.pool.QueryRow(ctx, query, participantID, weekStart)
	if err := row.Scan(&snap.ID, &snap.ParticipantID, &snap.Week, &snap.Score, &snap.Improvement, &snap.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Snapshot{}, ErrNoSnapshot
		}
		return model.Snapshot{}, fmt.Errorf("query prior snapshot: %w", err)
	}
	return snap, nil
}

// UpsertSnapshot inserts or overwrites the (participant, week) snapshot as a
// single atomic conditional write.
func (s *PostgresStore) UpsertSnapshot(ctx context.Context, snap model.Snapshot) error {
	const stmt = `INSERT INTO weekly_snapshots (participant_id, week, score, improvement)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (participant_id, week)
        DO UPDATE SET score = EXCLUDED.score, improvement = EXCLUDED.improvement`

	if _, err := s.pool.Exec(ctx, stmt, snap.ParticipantID, snap.Week, snap.Score, snap.Improvement); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// TopImprovements returns up to limit positive improvements for the week.
func (s *PostgresStore) TopImprovements(ctx context.Context, weekStart time.Time, limit int) ([]model.Improvement, error) {
	const query = `SELECT l.name, l.leetcode_username, w.improvement
        FROM weekly_snapshots w
        JOIN leaderboard l ON l.id = w.participant_id
        WHERE w.week = $1 AND w.improvement > 0
        ORDER BY w.improvement DESC, l.leetcode_username
        LIMIT $2`

	rows, err := s.pool.Query(ctx, query, weekStart, limit)
	if err != nil {
		return nil, fmt.Errorf("query improvements: %w", err)
	}
	defer rows.Close()

	out := make([]model.Improvement, 0, limit)
	for rows.Next() {
		var imp model.Improvement
		if err := rows.Scan(&imp.Name, &imp.Handle, &imp.Improvement); err != nil {
			return nil, fmt.Errorf("scan improvement: %w", err)
		}
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate improvements: %w", err)
	}
	return out, nil
}

// Count returns the number of registered participants.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leaderboard").Scan(&total); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return total, nil
}

func scanParticipants(rows pgx.Rows) ([]model.Participant, error) {
	out := make([]model.Participant, 0)
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Department, &p.Handle, &p.Score, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}
