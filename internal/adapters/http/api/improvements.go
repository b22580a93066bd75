// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// Default and cap for GET /weekly-improvements?limit.
const defaultImprovementLimit = 5

// ImprovementsHandler handles weekly-improvements requests.
type ImprovementsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewImprovementsHandler creates a new improvements handler.
func NewImprovementsHandler(deps Dependencies, maxLimit int) *ImprovementsHandler {
	return &ImprovementsHandler{deps: deps, maxLimit: maxLimit}
}

type improvementRow struct {
	Name             string `json:"name"`
	LeetcodeUsername string `json:"leetcode_username"`
	Improvement      int    `json:"improvement"`
}

// HandleGetImprovements handles GET /weekly-improvements?limit=N requests.
func (h *ImprovementsHandler) HandleGetImprovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultImprovementLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		writeError(w, http.StatusBadRequest, "Limit exceeded")
		return
	}

	improvements, err := h.deps.TopImprovements(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	out := make([]improvementRow, len(improvements))
	for i, imp := range improvements {
		out[i] = improvementRow{
			Name:             imp.Name,
			LeetcodeUsername: imp.Handle,
			Improvement:      imp.Improvement,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
