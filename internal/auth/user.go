// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/samber/oops"
)

// Username and password constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxPasswordLength = 1024
)

// usernameRegex: a letter, then letters, digits, or underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// User is a registered account and is immutable once created. The password
// hash is never part of User; login reads it with UserRepository.Credentials.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// ValidateUsername checks length and character rules.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return invalid("username", "username cannot be empty")
	case len(username) < MinUsernameLength:
		return invalid("username", "username must be at least %d characters", MinUsernameLength)
	case len(username) > MaxUsernameLength:
		return invalid("username", "username must be at most %d characters", MaxUsernameLength)
	case !usernameRegex.MatchString(username):
		return invalid("username", "username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword requires a non-empty password of bounded length.
func ValidatePassword(password string) error {
	if password == "" {
		return invalid("password", "password cannot be empty")
	}
	if utf8.RuneCountInString(password) > MaxPasswordLength {
		return invalid("password", "password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return oops.Code(CodeValidation).With("field", field).Wrapf(ErrValidation, format, args...)
}

// UserRepository persists users and owns username uniqueness.
type UserRepository interface {
	// Create inserts a user and returns its id. The check for an existing
	// username and the insert are one atomic statement; a taken name
	// (case-insensitive) yields ErrDuplicateUsername.
	Create(ctx context.Context, username, passwordHash string) (int64, error)

	// GetByUsername looks a user up case-insensitively. Returns ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// PasswordHash returns the stored hash for a user id. Returns ErrNotFound.
	PasswordHash(ctx context.Context, userID int64) (string, error)

	// Credentials returns the user and stored hash for username in one
	// lookup, so known and unknown names cost the same number of queries.
	// Returns ErrNotFound.
	Credentials(ctx context.Context, username string) (*User, string, error)
}
