// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/leetboard/internal/adapters/repository"
	"github.com/okian/leetboard/internal/domain/model"
)

// Leaderboard page size is fixed; clients page, they don't size.
const pageSize = 30

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Register creates a participant; duplicate or unresolvable handles
	// are rejected without mutating the store.
	Register(ctx context.Context, name, department, handle string) error

	// Leaderboard returns one page of the filtered, sorted leaderboard.
	Leaderboard(ctx context.Context, q repository.LeaderboardQuery) ([]model.Participant, repository.PageInfo, error)

	// TopImprovements returns this week's top positive improvements.
	TopImprovements(ctx context.Context, limit int) ([]model.Improvement, error)

	// RefreshNow runs an on-demand refresh pass.
	RefreshNow(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	submitHandler       *SubmitHandler
	leaderboardHandler  *LeaderboardHandler
	improvementsHandler *ImprovementsHandler
	refreshHandler      *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxImprovementLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		submitHandler:       NewSubmitHandler(deps),
		leaderboardHandler:  NewLeaderboardHandler(deps),
		improvementsHandler: NewImprovementsHandler(deps, maxImprovementLimit),
		refreshHandler:      NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submit", MetricsMiddleware(s.submitHandler.HandleSubmit, "submit"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/weekly-improvements", MetricsMiddleware(s.improvementsHandler.HandleGetImprovements, "weekly-improvements"))
	mux.HandleFunc("/update-scores", MetricsMiddleware(s.refreshHandler.HandleUpdateScores, "update-scores"))
}

// errorResponse carries the machine-readable error string clients
// pattern-match on.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
