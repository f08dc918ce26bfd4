package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/liftlog/internal/models"
	_ "modernc.org/sqlite"
)

// Lite is the single-file SQLite backend. It needs no external database
// server, which makes it the default for small deployments and for tests.
type Lite struct {
	db *sql.DB
}

// OpenLite opens (or creates) the SQLite store at the given path and ensures
// the schema exists.
func OpenLite(path string) (*Lite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS day_logs (
			username  TEXT NOT NULL,
			date      TEXT NOT NULL,
			type      TEXT NOT NULL,
			exercises TEXT NOT NULL,
			PRIMARY KEY (username, date)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Lite{db: db}, nil
}

// Close closes the underlying database.
func (s *Lite) Close() error {
	return s.db.Close()
}

// CreateUser stores a new user, or returns ErrUsernameTaken.
func (s *Lite) CreateUser(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// PasswordHash returns the stored hash for a user, or ErrNotFound.
func (s *Lite) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE username = ?`,
		username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying user: %w", err)
	}
	return hash, nil
}

// Get retrieves the log for one user and date.
func (s *Lite) Get(ctx context.Context, username, date string) (models.DayLog, error) {
	var (
		log models.DayLog
		raw []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 WHERE username = ? AND date = ?`,
		username, date).Scan(&log.Username, &log.Date, &log.Type, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayLog{}, ErrNotFound
	}
	if err != nil {
		return models.DayLog{}, fmt.Errorf("querying day log: %w", err)
	}
	if err := json.Unmarshal(raw, &log.Exercises); err != nil {
		// Corrupted exercise data: the record is unusable, treat as absent.
		return models.DayLog{}, ErrNotFound
	}
	return log, nil
}

// UserLogs retrieves all logs for one user, ordered by date ascending.
func (s *Lite) UserLogs(ctx context.Context, username string) ([]models.DayLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 WHERE username = ?
		 ORDER BY date ASC`,
		username)
	if err != nil {
		return nil, fmt.Errorf("querying user logs: %w", err)
	}
	defer rows.Close()

	return scanLiteLogRows(rows)
}

// ListAll retrieves every log for every user, ordered by username then date.
func (s *Lite) ListAll(ctx context.Context) ([]models.DayLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 ORDER BY username ASC, date ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying all logs: %w", err)
	}
	defer rows.Close()

	return scanLiteLogRows(rows)
}

// Upsert atomically replaces or inserts the log for (log.Username, log.Date).
func (s *Lite) Upsert(ctx context.Context, log models.DayLog) error {
	raw, err := json.Marshal(exercisesOrEmpty(log.Exercises))
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_logs (username, date, type, exercises)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (username, date) DO UPDATE
			SET type = excluded.type, exercises = excluded.exercises`,
		log.Username, log.Date, log.Type, raw)
	if err != nil {
		return fmt.Errorf("upserting day log: %w", err)
	}
	return nil
}

// Delete removes the log if present. Absent keys are a no-op.
func (s *Lite) Delete(ctx context.Context, username, date string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM day_logs WHERE username = ? AND date = ?`,
		username, date)
	if err != nil {
		return fmt.Errorf("deleting day log: %w", err)
	}
	return nil
}

func scanLiteLogRows(rows *sql.Rows) ([]models.DayLog, error) {
	var result []models.DayLog
	for rows.Next() {
		var (
			log models.DayLog
			raw []byte
		)
		if err := rows.Scan(&log.Username, &log.Date, &log.Type, &raw); err != nil {
			return nil, fmt.Errorf("scanning day log: %w", err)
		}
		if err := json.Unmarshal(raw, &log.Exercises); err != nil {
			// One bad record must not prevent loading the rest.
			continue
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
