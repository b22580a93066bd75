// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/okian/leetboard/internal/adapters/repository"
	"github.com/okian/leetboard/internal/domain/model"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// leaderboardRow mirrors the JSON shape the leaderboard UI renders.
type leaderboardRow struct {
	Name             string `json:"name"`
	Department       string `json:"department"`
	LeetcodeUsername string `json:"leetcode_username"`
	Score            *int   `json:"score"`
}

type leaderboardResponse struct {
	Data       []leaderboardRow    `json:"data"`
	Pagination repository.PageInfo `json:"pagination"`
}

// HandleGetLeaderboard handles
// GET /leaderboard?search=&department=&sort=asc|desc&page=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	params := r.URL.Query()
	page := 1
	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid page")
			return
		}
		page = n
	}

	q := repository.LeaderboardQuery{
		Search:     params.Get("search"),
		Department: params.Get("department"),
		Ascending:  params.Get("sort") == "asc", // anything else sorts descending
		Page:       page,
		PageSize:   pageSize,
	}

	rows, info, err := h.deps.Leaderboard(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	out := make([]leaderboardRow, len(rows))
	for i, p := range rows {
		out[i] = toRow(p)
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Data: out, Pagination: info})
}

func toRow(p model.Participant) leaderboardRow {
	return leaderboardRow{
		Name:             p.Name,
		Department:       p.Department,
		LeetcodeUsername: p.Handle,
		Score:            p.Score,
	}
}
