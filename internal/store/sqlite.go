// ABOUTME: SQLite implementation of the TaskStore interface using modernc.org/sqlite
// ABOUTME: Provides task persistence with automatic schema creation and owner scoping

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// DefaultListLimit caps List results when the caller supplies no limit.
const DefaultListLimit = 50

// Ensure SQLiteStore implements TaskStore.
var _ TaskStore = (*SQLiteStore)(nil)

// SQLiteStore implements the TaskStore interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed   INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// validateTitle trims and bounds-checks a title. Limits count characters,
// not bytes, so multibyte titles are measured the way users see them.
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", fmt.Errorf("%w: task title must be %d characters or less", ErrValidation, MaxTitleLen)
	}
	return title, nil
}

// validateDescription trims and bounds-checks a description.
func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return "", fmt.Errorf("%w: description must be %d characters or less", ErrValidation, MaxDescriptionLen)
	}
	return description, nil
}

// Create validates and persists a new task. Validation happens before any
// write; a failed validation never touches storage state.
func (s *SQLiteStore) Create(ctx context.Context, userID, title, description string) (*Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	description, err = validateDescription(description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, userID, title, description, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading task id: %w", err)
	}

	return &Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// parseTimestamp decodes a stored RFC3339 timestamp column.
func parseTimestamp(column, value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return ts, nil
}

// Get retrieves a task by id, scoped to the owning user. A task owned by
// another user yields ErrNotFound, identical to a nonexistent id.
func (s *SQLiteStore) Get(ctx context.Context, userID string, taskID int64) (*Task, error) {
	var t Task
	var completed int
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?
	`, taskID, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &completed, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Completed = completed != 0
	if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

// List returns the user's tasks in insertion order, capped at limit.
func (s *SQLiteStore) List(ctx context.Context, userID string, includeCompleted bool, limit int) ([]*Task, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	args := []any{userID}
	sqlQuery := `SELECT id, user_id, title, description, completed, created_at, updated_at FROM tasks WHERE user_id = ?`
	if !includeCompleted {
		sqlQuery += ` AND completed = 0`
	}
	sqlQuery += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*Task
	for rows.Next() {
		var t Task
		var completed int
		var createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &completed, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		if t.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// Update applies the supplied fields to a task and bumps updated_at.
// At least one field must be supplied.
func (s *SQLiteStore) Update(ctx context.Context, userID string, taskID int64, upd TaskUpdate) (*Task, error) {
	if upd.Title == nil && upd.Description == nil {
		return nil, fmt.Errorf("%w: at least one field (title or description) must be provided", ErrValidation)
	}

	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if upd.Description != nil {
		description, err := validateDescription(*upd.Description)
		if err != nil {
			return nil, err
		}
		task.Description = description
	}

	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, task.Title, task.Description, task.UpdatedAt.Format(time.RFC3339Nano), taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}

	return task, nil
}

// Complete marks a task as completed. Completing an already-completed task
// is a no-op: the current state is returned unchanged and updated_at keeps
// its previous value.
func (s *SQLiteStore) Complete(ctx context.Context, userID string, taskID int64) (*Task, bool, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, false, err
	}

	if task.Completed {
		return task, false, nil
	}

	task.Completed = true
	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, task.UpdatedAt.Format(time.RFC3339Nano), taskID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("completing task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, false, ErrNotFound
	}

	return task, true, nil
}

// ToggleComplete flips the completed flag unconditionally and bumps
// updated_at.
func (s *SQLiteStore) ToggleComplete(ctx context.Context, userID string, taskID int64) (*Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()

	completed := 0
	if task.Completed {
		completed = 1
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, completed, task.UpdatedAt.Format(time.RFC3339Nano), taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("toggling task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}

	return task, nil
}

// Delete permanently removes a task, scoped to the owning user.
func (s *SQLiteStore) Delete(ctx context.Context, userID string, taskID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
