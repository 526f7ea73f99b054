// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// SessionManager issues, resolves, and destroys opaque session tokens.
// Expiry slides: every successful Resolve pushes it a full idle timeout
// into the future.
type SessionManager struct {
	sessions SessionRepository
	idle     time.Duration
	now      func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithIdleTimeout sets how long a session survives without being resolved.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(m *SessionManager) { m.idle = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager creates a SessionManager with a 24h idle timeout unless
// overridden.
func NewSessionManager(sessions SessionRepository, opts ...SessionOption) (*SessionManager, error) {
	if sessions == nil {
		return nil, oops.Code("SESSION_INVALID_CONFIG").Errorf("session repository is required")
	}
	m := &SessionManager{
		sessions: sessions,
		idle:     DefaultIdleTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.idle <= 0 {
		return nil, oops.Code("SESSION_INVALID_CONFIG").With("idle_timeout", m.idle).Errorf("idle timeout must be positive")
	}
	if m.now == nil {
		return nil, oops.Code("SESSION_INVALID_CONFIG").Errorf("clock is required")
	}
	return m, nil
}

// IdleTimeout returns the sliding expiry window.
func (m *SessionManager) IdleTimeout() time.Duration { return m.idle }

// Create starts a session for the user and returns the plaintext token.
// When ctx carries a transaction the session is written inside it.
func (m *SessionManager) Create(ctx context.Context, userID int64, username string) (string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	now := m.now()
	session, err := NewSession(userID, username, tokenHash, now, now.Add(m.idle))
	if err != nil {
		return "", err
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return "", oops.Code(CodeSessionPersistence).
			With("operation", "create session").
			With("user_id", userID).
			Wrap(err)
	}

	recordSessionEvent(SessionCreated, 1)
	return token, nil
}

// Resolve maps a token to the Identity it was issued for. Missing, unknown,
// and expired tokens resolve to the anonymous state: ok is false and err is
// nil. err is reserved for storage failures.
func (m *SessionManager) Resolve(ctx context.Context, token string) (id Identity, ok bool, err error) {
	if token == "" {
		recordSessionEvent(SessionAnonymous, 1)
		return Identity{}, false, nil
	}

	now := m.now()
	session, err := m.sessions.Touch(ctx, HashSessionToken(token), now, now.Add(m.idle))
	if errors.Is(err, ErrNotFound) {
		recordSessionEvent(SessionAnonymous, 1)
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, oops.Code(CodeSessionPersistence).
			With("operation", "resolve session").
			Wrap(err)
	}

	recordSessionEvent(SessionResolved, 1)
	return Identity{userID: session.UserID, username: session.Username}, true, nil
}

// Destroy ends the session for token. Unknown tokens are ignored, so
// Destroy is idempotent. Other sessions of the same user are untouched.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		return oops.Code(CodeSessionPersistence).
			With("operation", "destroy session").
			Wrap(err)
	}
	recordSessionEvent(SessionDestroyed, 1)
	return nil
}

// DeleteExpired removes every session expired as of now.
func (m *SessionManager) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, oops.Code(CodeSessionPersistence).
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	recordSessionEvent(SessionSwept, int(n))
	return n, nil
}
