// Package auth handles registration, credential verification, and session
// tokens. Passwords are stored as bcrypt hashes; bcrypt salts and stretches
// internally, so no separate salt column is needed.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Service verifies and creates user credentials against a credential store.
type Service struct {
	creds storage.CredentialStore
	cost  int
}

// NewService creates an auth service with the default bcrypt cost.
func NewService(creds storage.CredentialStore) *Service {
	return &Service{creds: creds, cost: bcrypt.DefaultCost}
}

// NewServiceWithCost creates an auth service with an explicit bcrypt cost.
// Tests use bcrypt.MinCost to keep hashing fast.
func NewServiceWithCost(creds storage.CredentialStore, cost int) *Service {
	return &Service{creds: creds, cost: cost}
}

// Register hashes the password and stores the new user. Returns
// storage.ErrUsernameTaken when the username already exists. No username
// format or password strength rules are applied.
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.creds.CreateUser(ctx, username, string(hash))
}

// Authenticate reports whether the username exists and the password matches
// the stored hash. An unknown user and a wrong password are indistinguishable
// to the caller. Storage failures are returned as errors, never as false.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.creds.PasswordHash(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
