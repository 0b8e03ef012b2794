package api

import "net/http"

// StreakHandler serves the streak and milestones.
type StreakHandler struct {
	deps ProtocolReader
}

// NewStreakHandler creates a new streak handler.
func NewStreakHandler(deps ProtocolReader) *StreakHandler {
	return &StreakHandler{deps: deps}
}

// HandleStreak handles GET /streak.
func (h *StreakHandler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Streak())
}

// HandleMilestones handles GET /milestones.
func (h *StreakHandler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Milestones())
}
