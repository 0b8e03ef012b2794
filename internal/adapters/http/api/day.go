package api

import (
	"net/http"
)

// DayHandler serves the dashboard view and the derived protocol day.
type DayHandler struct {
	deps ProtocolReader
}

// NewDayHandler creates a new day handler.
func NewDayHandler(deps ProtocolReader) *DayHandler {
	return &DayHandler{deps: deps}
}

// HandleView handles GET /view.
func (h *DayHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.View())
}

// HandleDay handles GET /day.
func (h *DayHandler) HandleDay(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DerivedDay())
}

// HandleToday handles GET /today: today's completion mapping.
func (h *DayHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.TodayCompletion())
}

// HandleCatalog handles GET /catalog.
func (h *DayHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog().Pillars())
}
