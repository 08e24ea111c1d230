// ABOUTME: REST handlers for direct task CRUD by web and mobile frontends.
// ABOUTME: Owner-scoped routes under /api/{user_id}/tasks with JSON error bodies.

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verdantlabs/todo-gateway/internal/auth"
	"github.com/verdantlabs/todo-gateway/internal/store"
)

// API serves the REST task surface. Unlike the tool layer, REST responses
// carry the owner id since the route itself is already owner-scoped.
type API struct {
	store  store.TaskStore
	logger *slog.Logger
}

// NewAPI creates the REST handler group backed by the given store.
func NewAPI(s store.TaskStore, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{store: s, logger: logger}
}

// Routes registers the task routes on the mux. The auth middleware must wrap
// the mux so handlers can read the caller from context.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{user_id}/tasks", a.handleListTasks)
	mux.HandleFunc("POST /api/{user_id}/tasks", a.handleCreateTask)
	mux.HandleFunc("GET /api/{user_id}/tasks/{task_id}", a.handleGetTask)
	mux.HandleFunc("PUT /api/{user_id}/tasks/{task_id}", a.handleUpdateTask)
	mux.HandleFunc("DELETE /api/{user_id}/tasks/{task_id}", a.handleDeleteTask)
	mux.HandleFunc("PATCH /api/{user_id}/tasks/{task_id}/complete", a.handleToggleComplete)
}

// CreateTaskRequest is the JSON request body for POST /api/{user_id}/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the JSON request body for PUT /api/{user_id}/tasks/{task_id}.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// TaskResponse is the JSON response for task operations.
type TaskResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskResponse(t *store.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// resolveUser checks that the path user matches the authenticated caller.
// A mismatch is a hard 403; the path segment never overrides the token.
func (a *API) resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	pathUser := r.PathValue("user_id")
	tokenUser := auth.UserFromContext(r.Context())

	if tokenUser == "" {
		a.sendJSONError(w, http.StatusUnauthorized, "not authenticated")
		return "", false
	}
	if pathUser != tokenUser {
		a.sendJSONError(w, http.StatusForbidden, "Access denied: user_id mismatch")
		return "", false
	}
	return tokenUser, true
}

// taskID parses the task_id path segment.
func (a *API) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("task_id"), 10, 64)
	if err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

// handleListTasks handles GET /api/{user_id}/tasks.
// Returns a JSON array of all the user's tasks in insertion order.
func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			a.sendJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	tasks, err := a.store.List(r.Context(), userID, true, limit)
	if err != nil {
		a.serverError(w, "listing tasks", err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, taskResponse(t))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleCreateTask handles POST /api/{user_id}/tasks.
func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := a.store.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		a.storeError(w, "creating task", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(taskResponse(task))
}

// handleGetTask handles GET /api/{user_id}/tasks/{task_id}.
func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}
	id, ok := a.taskID(w, r)
	if !ok {
		return
	}

	task, err := a.store.Get(r.Context(), userID, id)
	if err != nil {
		a.storeError(w, "fetching task", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(taskResponse(task))
}

// handleUpdateTask handles PUT /api/{user_id}/tasks/{task_id}.
// Only the fields present in the body change; absent fields are preserved.
func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}
	id, ok := a.taskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := a.store.Update(r.Context(), userID, id, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		a.storeError(w, "updating task", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(taskResponse(task))
}

// handleDeleteTask handles DELETE /api/{user_id}/tasks/{task_id}.
func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}
	id, ok := a.taskID(w, r)
	if !ok {
		return
	}

	if err := a.store.Delete(r.Context(), userID, id); err != nil {
		a.storeError(w, "deleting task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleToggleComplete handles PATCH /api/{user_id}/tasks/{task_id}/complete.
// This is the direct-edit path: it flips the flag unconditionally, unlike
// the agent's idempotent complete_task tool.
func (a *API) handleToggleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.resolveUser(w, r)
	if !ok {
		return
	}
	id, ok := a.taskID(w, r)
	if !ok {
		return
	}

	task, err := a.store.ToggleComplete(r.Context(), userID, id)
	if err != nil {
		a.storeError(w, "toggling task", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(taskResponse(task))
}

// storeError maps store errors onto HTTP statuses: absent or foreign tasks
// are 404, validation failures 422, anything else 500.
func (a *API) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.sendJSONError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, store.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), store.ErrValidation.Error()+": ")
		a.sendJSONError(w, http.StatusUnprocessableEntity, msg)
	default:
		a.serverError(w, op, err)
	}
}

func (a *API) serverError(w http.ResponseWriter, op string, err error) {
	a.logger.Error("request failed", "op", op, "error", err)
	a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
}

// sendJSONError writes a JSON error response.
func (a *API) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
