// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/conlang-studio/studio/internal/auth"
)

// MockUserRepository is a testify mock of auth.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock that asserts its expectations on cleanup.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	register(&m.Mock, t)
	return m
}

// Create implements auth.UserRepository.
func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	args := m.Called(ctx, username, passwordHash)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

// GetByUsername implements auth.UserRepository.
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// PasswordHash implements auth.UserRepository.
func (m *MockUserRepository) PasswordHash(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// Credentials implements auth.UserRepository.
func (m *MockUserRepository) Credentials(ctx context.Context, username string) (*auth.User, string, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.String(1), args.Error(2)
}

var _ auth.UserRepository = (*MockUserRepository)(nil)
