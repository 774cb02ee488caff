// Package auth implements registration and login over the user table.
// Secrets are stored as bcrypt hashes; login failures never reveal whether
// the username or the password was wrong.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"paisa/internal/core"
	"paisa/internal/storage"
)

// MinSecretLen is the minimum accepted password length.
const MinSecretLen = 6

type Service struct {
	repo *storage.SQLiteRepository
}

func NewService(repo *storage.SQLiteRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a new identity with a bcrypt-hashed secret and a monthly
// budget. The confirmation must match the secret exactly.
func (s *Service) Register(ctx context.Context, username, secret, confirm string, budget core.Money) (core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.User{}, fmt.Errorf("%w: username cannot be empty", core.ErrInvalidInput)
	}
	if secret != confirm {
		return core.User{}, fmt.Errorf("%w: passwords don't match", core.ErrInvalidInput)
	}
	if len(secret) < MinSecretLen {
		return core.User{}, fmt.Errorf("%w: password must be at least %d characters", core.ErrInvalidInput, MinSecretLen)
	}
	if budget.Cents <= 0 {
		return core.User{}, fmt.Errorf("%w: budget must be positive", core.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, string(hash), budget.Cents)
	if err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "Identity registered", "username", username, "user_id", id)
	return core.User{ID: id, Username: username, Budget: budget}, nil
}

// Authenticate verifies the secret against the stored hash and returns the
// identity with its budget. Unknown usernames and wrong secrets both yield
// core.ErrAuthFailed.
func (s *Service) Authenticate(ctx context.Context, username, secret string) (core.User, error) {
	rec, err := s.repo.UserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.ErrAuthFailed
	}
	if err != nil {
		return core.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(secret)); err != nil {
		return core.User{}, core.ErrAuthFailed
	}

	slog.InfoContext(ctx, "Login succeeded", "username", rec.Username, "user_id", rec.ID)
	return core.User{
		ID:        rec.ID,
		Username:  rec.Username,
		Budget:    core.Money{Cents: rec.BudgetCents},
		CreatedAt: rec.CreatedAt,
	}, nil
}
