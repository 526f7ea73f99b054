// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/conlang-studio/studio/internal/auth"
)

// MockSessionRepository is a testify mock of auth.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

// NewMockSessionRepository creates a mock that asserts its expectations on cleanup.
func NewMockSessionRepository(t testingT) *MockSessionRepository {
	m := &MockSessionRepository{}
	register(&m.Mock, t)
	return m
}

// Create implements auth.SessionRepository.
func (m *MockSessionRepository) Create(ctx context.Context, session *auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

// Touch implements auth.SessionRepository.
func (m *MockSessionRepository) Touch(ctx context.Context, tokenHash string, now, expiresAt time.Time) (*auth.Session, error) {
	args := m.Called(ctx, tokenHash, now, expiresAt)
	session, _ := args.Get(0).(*auth.Session)
	return session, args.Error(1)
}

// DeleteByTokenHash implements auth.SessionRepository.
func (m *MockSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

// DeleteExpired implements auth.SessionRepository.
func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ auth.SessionRepository = (*MockSessionRepository)(nil)
