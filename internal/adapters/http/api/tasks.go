package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/regrow/internal/app"
)

// TaskMutator changes today's completion.
type TaskMutator interface {
	ToggleTask(ctx context.Context, taskID string) (service.View, error)
	CompleteTask(ctx context.Context, taskID string) (service.View, error)
	SetCounter(ctx context.Context, taskID string, n int) (service.View, error)
	SeenRequest(ctx context.Context, requestID string) bool
	ForgetRequest(ctx context.Context, requestID string)
	View() service.View
}

// TasksHandler handles /tasks/{id}/{action}.
type TasksHandler struct {
	deps TaskMutator
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(deps TaskMutator) *TasksHandler {
	return &TasksHandler{deps: deps}
}

type counterRequest struct {
	Value *int `json:"value"`
}

// HandleTask dispatches POST /tasks/{id}/toggle, POST /tasks/{id}/complete
// and PUT /tasks/{id}/counter.
func (h *TasksHandler) HandleTask(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tasks/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadPath)
		return
	}
	taskID, action := parts[0], parts[1]

	var apply func(ctx context.Context) (service.View, error)
	switch action {
	case "toggle":
		if !allow(w, r, http.MethodPost) {
			return
		}
		apply = func(ctx context.Context) (service.View, error) { return h.deps.ToggleTask(ctx, taskID) }
	case "complete":
		if !allow(w, r, http.MethodPost) {
			return
		}
		apply = func(ctx context.Context) (service.View, error) { return h.deps.CompleteTask(ctx, taskID) }
	case "counter":
		if !allow(w, r, http.MethodPut) {
			return
		}
		var req counterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if req.Value == nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		n := *req.Value
		apply = func(ctx context.Context) (service.View, error) { return h.deps.SetCounter(ctx, taskID, n) }
	default:
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	reqID := r.Header.Get(requestIDHeader)
	if h.deps.SeenRequest(ctx, reqID) {
		w.Header().Set("X-Duplicate", "true")
		writeJSON(w, http.StatusOK, h.deps.View())
		return
	}
	v, err := apply(ctx)
	if err != nil {
		h.deps.ForgetRequest(ctx, reqID)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
