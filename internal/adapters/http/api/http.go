// Package api exposes the protocol controller over a loopback JSON API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/regrow/internal/adapters/timer"
	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/internal/domain/progress"
)

// requestIDHeader carries the client id that makes a mutation retry-safe.
const requestIDHeader = "X-Request-ID"

// Dependencies is everything the handlers need from the controller.
type Dependencies interface {
	ProtocolReader
	TaskMutator
	OnboardingDependencies
	SettingsDependencies
	TimerDependencies
}

// ProtocolReader serves derived, read-only state.
type ProtocolReader interface {
	View() service.View
	DerivedDay() calendar.DayInfo
	TodayCompletion() model.DayCompletion
	Pillars() []service.PillarView
	PillarCompletion(tasks []catalog.Task) progress.Summary
	CalendarGrid() calendar.Grid
	CalendarGridFor(start, today calendar.Date) calendar.Grid
	Streak() model.StreakState
	Milestones() []service.MilestoneView
	Catalog() *catalog.Catalog
}

// Server wires HTTP routes for the API.
type Server struct {
	healthHandler   *HealthHandler
	dayHandler      *DayHandler
	tasksHandler    *TasksHandler
	onboardHandler  *OnboardingHandler
	pillarsHandler  *PillarsHandler
	calendarHandler *CalendarHandler
	streakHandler   *StreakHandler
	settingsHandler *SettingsHandler
	timersHandler   *TimersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(deps),
		dayHandler:      NewDayHandler(deps),
		tasksHandler:    NewTasksHandler(deps),
		onboardHandler:  NewOnboardingHandler(deps),
		pillarsHandler:  NewPillarsHandler(deps),
		calendarHandler: NewCalendarHandler(deps),
		streakHandler:   NewStreakHandler(deps),
		settingsHandler: NewSettingsHandler(deps),
		timersHandler:   NewTimersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())

	mux.HandleFunc("/view", MetricsMiddleware(s.dayHandler.HandleView, "view"))
	mux.HandleFunc("/day", MetricsMiddleware(s.dayHandler.HandleDay, "day"))
	mux.HandleFunc("/today", MetricsMiddleware(s.dayHandler.HandleToday, "today"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.dayHandler.HandleCatalog, "catalog"))

	mux.HandleFunc("/onboarding", MetricsMiddleware(s.onboardHandler.HandleComplete, "onboarding"))
	mux.HandleFunc("/tasks/", MetricsMiddleware(s.tasksHandler.HandleTask, "tasks"))
	mux.HandleFunc("/pillars", MetricsMiddleware(s.pillarsHandler.HandleList, "pillars"))
	mux.HandleFunc("/pillars/", MetricsMiddleware(s.pillarsHandler.HandleOne, "pillar"))
	mux.HandleFunc("/calendar", MetricsMiddleware(s.calendarHandler.HandleGrid, "calendar"))
	mux.HandleFunc("/streak", MetricsMiddleware(s.streakHandler.HandleStreak, "streak"))
	mux.HandleFunc("/milestones", MetricsMiddleware(s.streakHandler.HandleMilestones, "milestones"))
	mux.HandleFunc("/settings", MetricsMiddleware(s.settingsHandler.HandleSettings, "settings"))
	mux.HandleFunc("/timers", MetricsMiddleware(s.timersHandler.HandleStart, "timers"))
	mux.HandleFunc("/timers/", MetricsMiddleware(s.timersHandler.HandleTimer, "timer"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps controller and timer error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownTask):
		writeError(w, http.StatusNotFound, "unknown_task", err)
	case errors.Is(err, timer.ErrUnknownToken):
		writeError(w, http.StatusNotFound, "unknown_timer", err)
	case errors.Is(err, service.ErrNotCounter),
		errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, service.ErrNoTimer),
		errors.Is(err, timer.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeJSON reads the request body into v. An empty body leaves v zero.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
