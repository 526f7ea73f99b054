// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/store"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db store.Querier
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db store.Querier) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	_, err := store.QuerierFrom(ctx, r.db).Exec(ctx, `
		INSERT INTO sessions (id, user_id, username, token_hash, expires_at, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		session.ID.String(),
		session.UserID,
		session.Username,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastSeenAt,
	)
	if err != nil {
		return oops.Code(auth.CodeSessionPersistence).
			With("operation", "insert session").
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// Touch looks the session up and slides its expiry in one statement, so a
// session cannot expire between the check and the refresh.
func (r *SessionRepository) Touch(ctx context.Context, tokenHash string, now, expiresAt time.Time) (*auth.Session, error) {
	row := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		UPDATE sessions
		SET expires_at = $3, last_seen_at = $2
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING id, user_id, username, token_hash, expires_at, created_at, last_seen_at
	`, tokenHash, now, expiresAt)

	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code(auth.CodeSessionPersistence).
			With("operation", "touch session").
			Wrap(err)
	}
	return session, nil
}

// DeleteByTokenHash removes a session; a missing row is not an error.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := store.QuerierFrom(ctx, r.db).Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return oops.Code(auth.CodeSessionPersistence).
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// DeleteExpired removes sessions expired at now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := store.QuerierFrom(ctx, r.db).Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, oops.Code(auth.CodeSessionPersistence).
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*auth.Session, error) {
	var (
		s     auth.Session
		idStr string
	)
	if err := row.Scan(&idStr, &s.UserID, &s.Username, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &s.LastSeenAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.With("operation", "parse session id").With("id", idStr).Wrap(err)
	}
	s.ID = id
	return &s, nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
