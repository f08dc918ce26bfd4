package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// Get retrieves the log for one user and date.
func (db *DB) Get(ctx context.Context, username, date string) (models.DayLog, error) {
	var (
		log models.DayLog
		raw []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 WHERE username = $1 AND date = $2`,
		username, date).Scan(&log.Username, &log.Date, &log.Type, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
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
func (db *DB) UserLogs(ctx context.Context, username string) ([]models.DayLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 WHERE username = $1
		 ORDER BY date ASC`,
		username)
	if err != nil {
		return nil, fmt.Errorf("querying user logs: %w", err)
	}
	defer rows.Close()

	return scanLogRows(rows)
}

// ListAll retrieves every log for every user, ordered by username then date.
func (db *DB) ListAll(ctx context.Context) ([]models.DayLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT username, date, type, exercises
		 FROM day_logs
		 ORDER BY username ASC, date ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying all logs: %w", err)
	}
	defer rows.Close()

	return scanLogRows(rows)
}

// Upsert atomically replaces or inserts the log for (log.Username, log.Date).
// The primary key plus ON CONFLICT DO UPDATE guarantees exactly one row per
// key even with concurrent writers.
func (db *DB) Upsert(ctx context.Context, log models.DayLog) error {
	raw, err := json.Marshal(exercisesOrEmpty(log.Exercises))
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO day_logs (username, date, type, exercises)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username, date) DO UPDATE
			SET type = EXCLUDED.type, exercises = EXCLUDED.exercises`,
		log.Username, log.Date, log.Type, raw)
	if err != nil {
		return fmt.Errorf("upserting day log: %w", err)
	}
	return nil
}

// Delete removes the log if present. Absent keys are a no-op.
func (db *DB) Delete(ctx context.Context, username, date string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM day_logs WHERE username = $1 AND date = $2`,
		username, date)
	if err != nil {
		return fmt.Errorf("deleting day log: %w", err)
	}
	return nil
}

func scanLogRows(rows pgx.Rows) ([]models.DayLog, error) {
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

// exercisesOrEmpty keeps stored JSON as [] rather than null for rest days.
func exercisesOrEmpty(entries []models.ExerciseEntry) []models.ExerciseEntry {
	if entries == nil {
		return []models.ExerciseEntry{}
	}
	return entries
}
