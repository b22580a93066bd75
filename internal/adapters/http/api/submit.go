// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/leetboard/internal/app"
)

// SubmitHandler handles registration requests.
type SubmitHandler struct {
	deps Dependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps Dependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// submitRequest mirrors the registration form payload.
type submitRequest struct {
	Name             string `json:"name"`
	Department       string `json:"department"`
	LeetcodeUsername string `json:"leetcodeUsername"`
}

// HandleSubmit handles POST /submit requests.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidSubmit)
		return
	}

	err := h.deps.Register(r.Context(), req.Name, req.Department, req.LeetcodeUsername)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, app.ErrDuplicateHandle):
		writeError(w, http.StatusBadRequest, msgDuplicateProfile)
	case errors.Is(err, app.ErrUnknownHandle):
		writeError(w, http.StatusBadRequest, msgInvalidUsername)
	case errors.Is(err, app.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgInvalidSubmit)
	default:
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}
