// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package mocks provides a testify mock of project.Repository.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/conlang-studio/studio/internal/project"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRepository is a testify mock of project.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a mock that asserts its expectations on cleanup.
func NewMockRepository(t testingT) *MockRepository {
	m := &MockRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ListForOwner implements project.Repository.
func (m *MockRepository) ListForOwner(ctx context.Context, ownerID int64) ([]*project.Project, error) {
	args := m.Called(ctx, ownerID)
	projects, _ := args.Get(0).([]*project.Project)
	return projects, args.Error(1)
}

// Create implements project.Repository.
func (m *MockRepository) Create(ctx context.Context, p *project.Project) (int64, error) {
	args := m.Called(ctx, p)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

// Get implements project.Repository.
func (m *MockRepository) Get(ctx context.Context, ownerID, projectID int64) (*project.Project, error) {
	args := m.Called(ctx, ownerID, projectID)
	p, _ := args.Get(0).(*project.Project)
	return p, args.Error(1)
}

// Update implements project.Repository.
func (m *MockRepository) Update(ctx context.Context, ownerID, projectID int64, name string, description *string) error {
	return m.Called(ctx, ownerID, projectID, name, description).Error(0)
}

// Delete implements project.Repository.
func (m *MockRepository) Delete(ctx context.Context, ownerID, projectID int64) error {
	return m.Called(ctx, ownerID, projectID).Error(0)
}

// CreateLanguage implements project.Repository.
func (m *MockRepository) CreateLanguage(ctx context.Context, ownerID int64, l *project.Language) (int64, error) {
	args := m.Called(ctx, ownerID, l)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

// ListLanguages implements project.Repository.
func (m *MockRepository) ListLanguages(ctx context.Context, ownerID, projectID int64) ([]*project.Language, error) {
	args := m.Called(ctx, ownerID, projectID)
	langs, _ := args.Get(0).([]*project.Language)
	return langs, args.Error(1)
}

var _ project.Repository = (*MockRepository)(nil)
