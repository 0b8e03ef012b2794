package api

import (
	"context"
	"net/http"

	service "github.com/okian/regrow/internal/app"
)

// OnboardingDependencies completes onboarding.
type OnboardingDependencies interface {
	CompleteOnboarding(ctx context.Context, p service.Profile) service.View
}

// OnboardingHandler handles POST /onboarding.
type OnboardingHandler struct {
	deps OnboardingDependencies
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(deps OnboardingDependencies) *OnboardingHandler {
	return &OnboardingHandler{deps: deps}
}

// HandleComplete handles POST /onboarding. Repeating it keeps the original
// start date.
func (h *OnboardingHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var p service.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CompleteOnboarding(r.Context(), p))
}
