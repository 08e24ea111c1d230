// ABOUTME: Task pack providing the five task-management tools for the agent.
// ABOUTME: Thin adapters over the TaskStore that shape results into envelopes.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verdantlabs/todo-gateway/internal/store"
)

// TaskPack creates the task tools backed by the given store. The catalog is
// a static declarative table: name, selection-steering description, and
// parameter schema per tool, with input validation living in the store layer.
func TaskPack(s store.TaskStore) []*Tool {
	h := &taskHandlers{store: s}
	return []*Tool{
		{
			Definition: Definition{
				Name:        "add_task",
				Description: "Add a new task to the user's todo list. Use this when the user wants to create, add, or make a new task.",
				InputSchemaJSON: `{"type":"object","properties":{` +
					`"title":{"type":"string","description":"The title or name of the task to add"},` +
					`"description":{"type":"string","description":"Optional detailed description of the task"}},` +
					`"required":["title"]}`,
			},
			Handler: h.AddTask,
		},
		{
			Definition: Definition{
				Name:        "list_tasks",
				Description: "List all tasks for the user. Use this when the user wants to see, view, show, or check their tasks or todo list.",
				InputSchemaJSON: `{"type":"object","properties":{` +
					`"include_completed":{"type":"boolean","description":"Whether to include completed tasks. Default is true."},` +
					`"limit":{"type":"integer","description":"Maximum number of tasks to return. Default is 50."}},` +
					`"required":[]}`,
			},
			Handler: h.ListTasks,
		},
		{
			Definition: Definition{
				Name:        "complete_task",
				Description: "Mark a task as completed. Use this when the user wants to complete, finish, check off, or mark a task as done.",
				InputSchemaJSON: `{"type":"object","properties":{` +
					`"task_id":{"type":"integer","description":"The ID of the task to mark as completed"}},` +
					`"required":["task_id"]}`,
			},
			Handler: h.CompleteTask,
		},
		{
			Definition: Definition{
				Name:        "delete_task",
				Description: "Delete a task from the todo list. Use this when the user wants to remove, delete, or get rid of a task.",
				InputSchemaJSON: `{"type":"object","properties":{` +
					`"task_id":{"type":"integer","description":"The ID of the task to delete"}},` +
					`"required":["task_id"]}`,
			},
			Handler: h.DeleteTask,
		},
		{
			Definition: Definition{
				Name:        "update_task",
				Description: "Update a task's title or description. Use this when the user wants to edit, modify, change, or rename a task.",
				InputSchemaJSON: `{"type":"object","properties":{` +
					`"task_id":{"type":"integer","description":"The ID of the task to update"},` +
					`"title":{"type":"string","description":"The new title for the task"},` +
					`"description":{"type":"string","description":"The new description for the task"}},` +
					`"required":["task_id"]}`,
			},
			Handler: h.UpdateTask,
		},
	}
}

type taskHandlers struct {
	store store.TaskStore
}

// TaskView is the task representation embedded in tool envelopes. It carries
// only user-meaningful fields; the owner id never leaves the core.
type TaskView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func viewOf(t *store.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskResult is the success envelope for tools returning a single task.
type TaskResult struct {
	Success bool     `json:"success"`
	Task    TaskView `json:"task"`
	Message string   `json:"message"`
}

// ListResult is the success envelope for list_tasks. The counts describe the
// returned (already-limited) set, not the user's entire task universe.
type ListResult struct {
	Success   bool       `json:"success"`
	Tasks     []TaskView `json:"tasks"`
	Total     int        `json:"total"`
	Pending   int        `json:"pending"`
	Completed int        `json:"completed"`
	Message   string     `json:"message"`
}

// DeleteResult is the success envelope for delete_task.
type DeleteResult struct {
	Success       bool   `json:"success"`
	DeletedTaskID int64  `json:"deleted_task_id"`
	Message       string `json:"message"`
}

// domainFailure translates a store error into a failure envelope, or passes
// infrastructure faults through as errors.
func domainFailure(err error, taskID int64) (json.RawMessage, error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		return failure(strings.TrimPrefix(err.Error(), store.ErrValidation.Error()+": ")), nil
	case errors.Is(err, store.ErrNotFound):
		return failure(fmt.Sprintf("Task with ID %d not found", taskID)), nil
	default:
		return nil, err
	}
}

type addTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *taskHandlers) AddTask(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error) {
	var in addTaskInput
	if err := json.Unmarshal(input, &in); err != nil {
		return failure("invalid input: " + err.Error()), nil
	}

	task, err := h.store.Create(ctx, userID, in.Title, in.Description)
	if err != nil {
		return domainFailure(err, 0)
	}

	return json.Marshal(TaskResult{
		Success: true,
		Task:    viewOf(task),
		Message: fmt.Sprintf("Task '%s' has been added successfully.", task.Title),
	})
}

type listTasksInput struct {
	IncludeCompleted *bool `json:"include_completed"`
	Limit            int   `json:"limit"`
}

func (h *taskHandlers) ListTasks(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error) {
	var in listTasksInput
	if err := json.Unmarshal(input, &in); err != nil {
		return failure("invalid input: " + err.Error()), nil
	}

	includeCompleted := true
	if in.IncludeCompleted != nil {
		includeCompleted = *in.IncludeCompleted
	}

	taskList, err := h.store.List(ctx, userID, includeCompleted, in.Limit)
	if err != nil {
		return domainFailure(err, 0)
	}

	views := make([]TaskView, 0, len(taskList))
	pending, completed := 0, 0
	for _, t := range taskList {
		views = append(views, viewOf(t))
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}

	return json.Marshal(ListResult{
		Success:   true,
		Tasks:     views,
		Total:     len(views),
		Pending:   pending,
		Completed: completed,
		Message:   fmt.Sprintf("Found %d task(s): %d pending, %d completed.", len(views), pending, completed),
	})
}

type taskIDInput struct {
	TaskID int64 `json:"task_id"`
}

func (h *taskHandlers) CompleteTask(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error) {
	var in taskIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return failure("invalid input: " + err.Error()), nil
	}

	task, changed, err := h.store.Complete(ctx, userID, in.TaskID)
	if err != nil {
		return domainFailure(err, in.TaskID)
	}

	message := fmt.Sprintf("Task '%s' has been marked as completed.", task.Title)
	if !changed {
		message = fmt.Sprintf("Task '%s' was already completed.", task.Title)
	}

	return json.Marshal(TaskResult{
		Success: true,
		Task:    viewOf(task),
		Message: message,
	})
}

func (h *taskHandlers) DeleteTask(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error) {
	var in taskIDInput
	if err := json.Unmarshal(input, &in); err != nil {
		return failure("invalid input: " + err.Error()), nil
	}

	// Fetch first so the confirmation can name the task.
	task, err := h.store.Get(ctx, userID, in.TaskID)
	if err != nil {
		return domainFailure(err, in.TaskID)
	}

	if err := h.store.Delete(ctx, userID, in.TaskID); err != nil {
		return domainFailure(err, in.TaskID)
	}

	return json.Marshal(DeleteResult{
		Success:       true,
		DeletedTaskID: in.TaskID,
		Message:       fmt.Sprintf("Task '%s' has been deleted.", task.Title),
	})
}

type updateTaskInput struct {
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *taskHandlers) UpdateTask(ctx context.Context, userID string, input json.RawMessage) (json.RawMessage, error) {
	var in updateTaskInput
	if err := json.Unmarshal(input, &in); err != nil {
		return failure("invalid input: " + err.Error()), nil
	}

	task, err := h.store.Update(ctx, userID, in.TaskID, store.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return domainFailure(err, in.TaskID)
	}

	return json.Marshal(TaskResult{
		Success: true,
		Task:    viewOf(task),
		Message: fmt.Sprintf("Task '%s' has been updated.", task.Title),
	})
}
