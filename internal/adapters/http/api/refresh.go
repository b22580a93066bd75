// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/leetboard/internal/refresh"
)

// RefreshHandler handles on-demand refresh requests.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleUpdateScores handles POST /update-scores requests.
func (h *RefreshHandler) HandleUpdateScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	updated, err := h.deps.RefreshNow(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{
			Message: fmt.Sprintf("Scores updated for %d participants", updated),
		})
	case errors.Is(err, refresh.ErrRefreshInProgress):
		writeJSON(w, http.StatusOK, messageResponse{Message: "Refresh already in progress"})
	default:
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}
