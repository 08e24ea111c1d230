// Package store provides persistent storage for todo-gateway using SQLite.
//
// # Data Model
//
// Task is the sole entity: an integer id assigned on creation, an owning
// user id, a title (1-200 characters after trimming), an optional
// description (up to 1000 characters after trimming), a completed flag,
// and created_at/updated_at timestamps.
//
// # Owner Scoping
//
// Every operation is implicitly filtered to the caller's own tasks via a
// single lookup-and-compare step in SQL (WHERE id = ? AND user_id = ?).
// A task owned by another user is reported as ErrNotFound, identical to a
// nonexistent id, so that ownership is never distinguishable from absence.
//
// # Validation
//
// Title and description bounds are enforced before any persistence attempt;
// a validation failure aborts the whole operation and never touches storage
// state. Validation errors wrap ErrValidation with a message describing the
// violation.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Use NewSQLiteStore(":memory:") for tests with real SQLite.
package store
