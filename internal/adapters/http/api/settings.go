package api

import (
	"context"
	"net/http"

	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/model"
)

// SettingsDependencies reads and replaces user settings.
type SettingsDependencies interface {
	Settings() model.Settings
	UpdateSettings(ctx context.Context, s model.Settings) service.View
}

// SettingsHandler handles /settings.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

// HandleSettings handles GET and PUT /settings.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, h.deps.Settings())
		return
	}
	var s model.Settings
	if err := decodeJSON(r, &s); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.UpdateSettings(r.Context(), s).Settings)
}
