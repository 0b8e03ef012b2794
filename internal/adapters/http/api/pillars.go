package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/regrow/internal/domain/catalog"
)

// PillarsHandler serves per-pillar completion for today.
type PillarsHandler struct {
	deps ProtocolReader
}

// NewPillarsHandler creates a new pillars handler.
func NewPillarsHandler(deps ProtocolReader) *PillarsHandler {
	return &PillarsHandler{deps: deps}
}

// HandleList handles GET /pillars.
func (h *PillarsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Pillars())
}

// HandleOne handles GET /pillars/{id}/completion.
func (h *PillarsHandler) HandleOne(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/pillars/"), "/completion")
	id, err := strconv.Atoi(rest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	tasks := h.deps.Catalog().PillarTasks(catalog.PillarID(id))
	if tasks == nil {
		writeError(w, http.StatusNotFound, "unknown_pillar", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PillarCompletion(tasks))
}
