// Package storage persists users and day logs. Two backends implement the
// same interfaces: Postgres (DB, via pgx) and a single-file SQLite store
// (Lite). Callers pick one at startup; everything above this package is
// backend-agnostic.
package storage

import (
	"context"
	"errors"

	"github.com/claude/liftlog/internal/models"
)

// ErrNotFound is returned by point lookups when no record exists for the key.
// Backend I/O failures are returned as distinct errors and must never be
// collapsed into ErrNotFound.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by CreateUser when the username already exists
// (case-sensitive exact match).
var ErrUsernameTaken = errors.New("username taken")

// LogStore maps (username, date) to at most one DayLog.
type LogStore interface {
	// Get returns the log for one user and date, or ErrNotFound.
	Get(ctx context.Context, username, date string) (models.DayLog, error)
	// UserLogs returns all logs for one user, ordered by date ascending.
	// Rows with corrupted exercise data are skipped, not fatal.
	UserLogs(ctx context.Context, username string) ([]models.DayLog, error)
	// ListAll returns every log for every user in a deterministic order
	// (username then date ascending). Used for the leaderboard scan.
	ListAll(ctx context.Context) ([]models.DayLog, error)
	// Upsert atomically replaces the log for (log.Username, log.Date), or
	// inserts it if absent. After any sequence of upserts exactly one record
	// exists per key, holding the fields of the last call.
	Upsert(ctx context.Context, log models.DayLog) error
	// Delete removes the log if present. Deleting an absent log is a no-op.
	Delete(ctx context.Context, username, date string) error
}

// CredentialStore maps usernames to password hashes.
type CredentialStore interface {
	// CreateUser stores a new user, or returns ErrUsernameTaken.
	CreateUser(ctx context.Context, username, passwordHash string) error
	// PasswordHash returns the stored hash for a user, or ErrNotFound.
	PasswordHash(ctx context.Context, username string) (string, error)
}

// Store is the full persistence surface the server needs.
type Store interface {
	LogStore
	CredentialStore
}

// Compile-time checks: both backends satisfy Store.
var (
	_ Store = (*DB)(nil)
	_ Store = (*Lite)(nil)
)
