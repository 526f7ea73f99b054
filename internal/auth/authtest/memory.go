// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package authtest provides in-memory auth repositories and helpers for
// tests in other packages.
package authtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
)

// Users is an in-memory auth.UserRepository.
type Users struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*memUser
	byID   map[int64]*memUser
}

type memUser struct {
	user auth.User
	hash string
}

// NewUsers creates an empty Users.
func NewUsers() *Users {
	return &Users{byName: map[string]*memUser{}, byID: map[int64]*memUser{}}
}

// Create implements auth.UserRepository.
func (u *Users) Create(_ context.Context, username, passwordHash string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	key := strings.ToLower(username)
	if _, taken := u.byName[key]; taken {
		return 0, oops.Code(auth.CodeDuplicateUsername).With("username", username).Wrap(auth.ErrDuplicateUsername)
	}
	u.nextID++
	rec := &memUser{
		user: auth.User{ID: u.nextID, Username: username, CreatedAt: time.Now()},
		hash: passwordHash,
	}
	u.byName[key] = rec
	u.byID[rec.user.ID] = rec
	return rec.user.ID, nil
}

// GetByUsername implements auth.UserRepository.
func (u *Users) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.byName[strings.ToLower(username)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	user := rec.user
	return &user, nil
}

// Credentials implements auth.UserRepository.
func (u *Users) Credentials(_ context.Context, username string) (*auth.User, string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.byName[strings.ToLower(username)]
	if !ok {
		return nil, "", auth.ErrNotFound
	}
	user := rec.user
	return &user, rec.hash, nil
}

// PasswordHash implements auth.UserRepository.
func (u *Users) PasswordHash(_ context.Context, userID int64) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.byID[userID]
	if !ok {
		return "", auth.ErrNotFound
	}
	return rec.hash, nil
}

// Sessions is an in-memory auth.SessionRepository.
type Sessions struct {
	mu     sync.Mutex
	byHash map[string]auth.Session
}

// NewSessions creates an empty Sessions.
func NewSessions() *Sessions {
	return &Sessions{byHash: map[string]auth.Session{}}
}

// Create implements auth.SessionRepository.
func (s *Sessions) Create(_ context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[session.TokenHash] = *session
	return nil
}

// Touch implements auth.SessionRepository.
func (s *Sessions) Touch(_ context.Context, tokenHash string, now, expiresAt time.Time) (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byHash[tokenHash]
	if !ok || session.IsExpiredAt(now) {
		return nil, auth.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	session.LastSeenAt = now
	s.byHash[tokenHash] = session
	return &session, nil
}

// DeleteByTokenHash implements auth.SessionRepository.
func (s *Sessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byHash, tokenHash)
	return nil
}

// DeleteExpired implements auth.SessionRepository.
func (s *Sessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for hash, session := range s.byHash {
		if session.IsExpiredAt(now) {
			delete(s.byHash, hash)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHash)
}

// Transactor runs fn directly. In-memory repositories have no rollback.
type Transactor struct{}

// InTransaction calls fn with ctx.
func (Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ auth.UserRepository    = (*Users)(nil)
	_ auth.SessionRepository = (*Sessions)(nil)
	_ auth.Transactor        = Transactor{}
)
