// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package project

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/pkg/errutil"
)

// Service mediates every project read and write. The owner is always taken
// from an auth.Identity, which only a resolved session can produce.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service that logs through slog.Default.
func NewService(repo Repository) (*Service, error) {
	return NewServiceWithLogger(repo, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("PROJECT_INVALID_CONFIG").Errorf("project repository is required")
	}
	if logger == nil {
		return nil, oops.Code("PROJECT_INVALID_CONFIG").Errorf("logger is required")
	}
	return &Service{repo: repo, logger: logger}, nil
}

// List returns the caller's projects, newest first.
func (s *Service) List(ctx context.Context, id auth.Identity) ([]*Project, error) {
	const op = "list"
	ownerID, err := owner(op, id)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, s.fail(op, ownerID, 0, err)
	}
	recordOperation(op, OutcomeSuccess)
	return projects, nil
}

// Create adds a project owned by the caller.
func (s *Service) Create(ctx context.Context, id auth.Identity, name, description string) (*Project, error) {
	const op = "create"
	ownerID, err := owner(op, id)
	if err != nil {
		return nil, err
	}
	p, err := NewProject(ownerID, name, description)
	if err != nil {
		recordOperation(op, OutcomeValidation)
		return nil, err
	}
	p.ID, err = s.repo.Create(ctx, p)
	if err != nil {
		return nil, s.fail(op, ownerID, 0, err)
	}
	recordOperation(op, OutcomeSuccess)
	s.logger.InfoContext(ctx, "project created", "owner_id", ownerID, "project_id", p.ID)
	return p, nil
}

// Get returns one of the caller's projects.
func (s *Service) Get(ctx context.Context, id auth.Identity, projectID int64) (*Project, error) {
	const op = "get"
	ownerID, err := owner(op, id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, ownerID, projectID)
	if err != nil {
		return nil, s.fail(op, ownerID, projectID, err)
	}
	recordOperation(op, OutcomeSuccess)
	return p, nil
}

// Update renames the project and replaces its description, applying the
// same normalization as Create.
func (s *Service) Update(ctx context.Context, id auth.Identity, projectID int64, name, description string) error {
	const op = "update"
	ownerID, err := owner(op, id)
	if err != nil {
		return err
	}
	name, desc, err := normalize(name, description)
	if err != nil {
		recordOperation(op, OutcomeValidation)
		return err
	}
	if err := s.repo.Update(ctx, ownerID, projectID, name, desc); err != nil {
		return s.fail(op, ownerID, projectID, err)
	}
	recordOperation(op, OutcomeSuccess)
	return nil
}

// Delete removes the project and its languages.
func (s *Service) Delete(ctx context.Context, id auth.Identity, projectID int64) error {
	const op = "delete"
	ownerID, err := owner(op, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, projectID); err != nil {
		return s.fail(op, ownerID, projectID, err)
	}
	recordOperation(op, OutcomeSuccess)
	s.logger.InfoContext(ctx, "project deleted", "owner_id", ownerID, "project_id", projectID)
	return nil
}

// CreateLanguage adds a language to one of the caller's projects.
func (s *Service) CreateLanguage(ctx context.Context, id auth.Identity, projectID int64, name string, kind LanguageKind, parentID *int64) (*Language, error) {
	const op = "create_language"
	ownerID, err := owner(op, id)
	if err != nil {
		return nil, err
	}
	l, err := NewLanguage(projectID, name, kind, parentID)
	if err != nil {
		recordOperation(op, OutcomeValidation)
		return nil, err
	}
	l.ID, err = s.repo.CreateLanguage(ctx, ownerID, l)
	if err != nil {
		return nil, s.fail(op, ownerID, projectID, err)
	}
	recordOperation(op, OutcomeSuccess)
	return l, nil
}

// ListLanguages returns the languages of one of the caller's projects.
func (s *Service) ListLanguages(ctx context.Context, id auth.Identity, projectID int64) ([]*Language, error) {
	const op = "list_languages"
	ownerID, err := owner(op, id)
	if err != nil {
		return nil, err
	}
	langs, err := s.repo.ListLanguages(ctx, ownerID, projectID)
	if err != nil {
		return nil, s.fail(op, ownerID, projectID, err)
	}
	recordOperation(op, OutcomeSuccess)
	return langs, nil
}

func owner(op string, id auth.Identity) (int64, error) {
	if !id.Authenticated() {
		recordOperation(op, OutcomeUnauthenticated)
		return 0, oops.Code(CodeUnauthenticated).With("operation", op).Wrap(ErrUnauthenticated)
	}
	return id.UserID(), nil
}

// fail classifies a repository error. Ownership failures pass through
// unchanged; anything else is a persistence failure and gets logged.
func (s *Service) fail(op string, ownerID, projectID int64, err error) error {
	if errors.Is(err, ErrForbidden) {
		recordOperation(op, OutcomeForbidden)
		return err
	}
	recordOperation(op, OutcomeError)
	wrapped := oops.Code(CodePersistence).
		With("operation", op).
		With("owner_id", ownerID).
		With("project_id", projectID).
		Wrap(err)
	errutil.LogError(s.logger, "project operation failed", wrapped)
	return wrapped
}
