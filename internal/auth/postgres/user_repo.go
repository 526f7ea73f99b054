// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package postgres implements the auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/store"
)

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	db store.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db store.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Uniqueness is enforced by the unique index on
// LOWER(username), so concurrent inserts of the same name cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, username, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, oops.Code(auth.CodeDuplicateUsername).
				With("username", username).
				Wrap(auth.ErrDuplicateUsername)
		}
		return 0, oops.Code(auth.CodePersistence).
			With("operation", "insert user").
			With("username", username).
			Wrap(err)
	}
	return id, nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code(auth.CodePersistence).
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return &u, nil
}

// PasswordHash returns the stored hash for userID.
func (r *UserRepository) PasswordHash(ctx context.Context, userID int64) (string, error) {
	var hash string
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx,
		`SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", oops.Code("USER_NOT_FOUND").With("user_id", userID).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return "", oops.Code(auth.CodePersistence).
			With("operation", "get password hash").
			With("user_id", userID).
			Wrap(err)
	}
	return hash, nil
}

// Credentials returns the user and password hash for username in one query.
func (r *UserRepository) Credentials(ctx context.Context, username string) (*auth.User, string, error) {
	var (
		u    auth.User
		hash string
	)
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, created_at, password_hash
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username).Scan(&u.ID, &u.Username, &u.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, "", oops.Code(auth.CodePersistence).
			With("operation", "get credentials").
			With("username", username).
			Wrap(err)
	}
	return &u, hash, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
