package api

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/regrow/pkg/metrics"
)

// HealthHandler serves liveness and Prometheus metrics.
type HealthHandler struct {
	deps ProtocolReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ProtocolReader) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status    string `json:"status"`
	Onboarded bool   `json:"onboarded"`
	DayNumber int    `json:"dayNumber"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	day := h.deps.DerivedDay()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Onboarded: day.Started(), DayNumber: day.DayNumber})
}

// MetricsHandler serves the custom Prometheus registry, refreshing the
// runtime gauges on every scrape.
func (h *HealthHandler) MetricsHandler() http.Handler {
	inner := promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		metrics.UpdateSystemMemoryUsage(ms.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		inner.ServeHTTP(w, r)
	})
}
