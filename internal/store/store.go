// ABOUTME: Store interface and data types for todo-gateway persistence
// ABOUTME: Defines the Task struct and the TaskStore interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// Task field limits, applied after whitespace trimming.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// ErrNotFound is returned when a task does not exist or belongs to another
// user. The two cases are deliberately indistinguishable so that callers
// cannot probe for the existence of other users' tasks.
var ErrNotFound = errors.New("task not found")

// ErrValidation is returned when input fails validation before any write.
// It is always wrapped with a message describing the specific violation.
var ErrValidation = errors.New("validation failed")

// Task represents a single todo item owned by a user.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskUpdate carries the optional fields for Update. A nil pointer leaves
// the field unchanged; at least one field must be non-nil.
type TaskUpdate struct {
	Title       *string
	Description *string
}

// TaskStore defines the interface for task persistence. Every method is
// scoped to the owning user: operations on tasks owned by someone else
// behave exactly as if the task did not exist.
type TaskStore interface {
	// Create validates and persists a new task for the user.
	Create(ctx context.Context, userID, title, description string) (*Task, error)

	// Get retrieves a single task by id.
	Get(ctx context.Context, userID string, taskID int64) (*Task, error)

	// List returns the user's tasks in insertion order, capped at limit.
	// A non-positive limit falls back to the default of 50. When
	// includeCompleted is false, completed tasks are filtered out.
	List(ctx context.Context, userID string, includeCompleted bool, limit int) ([]*Task, error)

	// Update applies the supplied fields to a task and bumps updated_at.
	Update(ctx context.Context, userID string, taskID int64, upd TaskUpdate) (*Task, error)

	// Complete marks a task as completed. It is idempotent: completing an
	// already-completed task returns the current state with changed=false
	// and does not touch updated_at.
	Complete(ctx context.Context, userID string, taskID int64) (task *Task, changed bool, err error)

	// ToggleComplete flips the completed flag unconditionally. Used by the
	// direct-edit HTTP surface, as opposed to the idempotent Complete used
	// by the agent tools.
	ToggleComplete(ctx context.Context, userID string, taskID int64) (*Task, error)

	// Delete permanently removes a task.
	Delete(ctx context.Context, userID string, taskID int64) error

	// Close releases any resources held by the store.
	Close() error
}
