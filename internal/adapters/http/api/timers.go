package api

import (
	"net/http"
	"strings"

	"github.com/okian/regrow/internal/adapters/timer"
)

// TimerDependencies starts and controls countdowns.
type TimerDependencies interface {
	StartTimer(taskID string) (timer.Status, error)
	Timers() *timer.Manager
}

// TimersHandler handles /timers.
type TimersHandler struct {
	deps TimerDependencies
}

// NewTimersHandler creates a new timers handler.
func NewTimersHandler(deps TimerDependencies) *TimersHandler {
	return &TimersHandler{deps: deps}
}

type startTimerRequest struct {
	TaskID string `json:"taskId"`
}

// HandleStart handles POST /timers and GET /timers.
func (h *TimersHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, h.deps.Timers().List())
		return
	}
	var req startTimerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.TaskID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	st, err := h.deps.StartTimer(req.TaskID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleTimer handles GET/DELETE /timers/{token} and
// POST /timers/{token}/{pause|resume|reset}.
func (h *TimersHandler) HandleTimer(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/timers/"), "/")
	if parts[0] == "" || len(parts) > 2 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	tok := timer.Token(parts[0])
	m := h.deps.Timers()

	if len(parts) == 1 {
		if !allow(w, r, http.MethodGet, http.MethodDelete) {
			return
		}
		if r.Method == http.MethodDelete {
			if err := m.Stop(tok); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		st, err := m.Status(tok)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
		return
	}

	var op func(timer.Token) (timer.Status, error)
	switch parts[1] {
	case "pause":
		op = m.Pause
	case "resume":
		op = m.Resume
	case "reset":
		op = m.Reset
	default:
		http.NotFound(w, r)
		return
	}
	if !allow(w, r, http.MethodPost) {
		return
	}
	st, err := op(tok)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
