package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// CreateUser stores a new user. Returns ErrUsernameTaken if the username
// already exists (case-sensitive match on the primary key).
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2)`,
		username, passwordHash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// PasswordHash returns the stored hash for a user, or ErrNotFound.
func (db *DB) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := db.Pool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE username = $1`,
		username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying user: %w", err)
	}
	return hash, nil
}
