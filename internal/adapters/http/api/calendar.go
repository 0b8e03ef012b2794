package api

import (
	"errors"
	"net/http"

	"github.com/okian/regrow/internal/domain/calendar"
)

// CalendarHandler serves the 12-week heat-map grid.
type CalendarHandler struct {
	deps ProtocolReader
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(deps ProtocolReader) *CalendarHandler {
	return &CalendarHandler{deps: deps}
}

// HandleGrid handles GET /calendar. With both start and today query
// parameters the grid is built for those dates instead of the protocol's.
func (h *CalendarHandler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	if !q.Has("start") && !q.Has("today") {
		writeJSON(w, http.StatusOK, h.deps.CalendarGrid())
		return
	}
	start, err1 := calendar.Parse(q.Get("start"))
	today, err2 := calendar.Parse(q.Get("today"))
	if err := errors.Join(err1, err2); err != nil || today.IsZero() {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadDate)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CalendarGridFor(start, today))
}
