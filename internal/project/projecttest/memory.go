// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package projecttest provides an in-memory project.Repository for tests in
// other packages.
package projecttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/conlang-studio/studio/internal/project"
)

// Repository is an in-memory project.Repository with the same ownership
// rules as the PostgreSQL one.
type Repository struct {
	mu        sync.Mutex
	now       func() time.Time
	nextID    int64
	nextLang  int64
	projects  map[int64]*project.Project
	languages map[int64]*project.Language
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		now:       time.Now,
		projects:  map[int64]*project.Project{},
		languages: map[int64]*project.Language{},
	}
}

// ListForOwner implements project.Repository.
func (r *Repository) ListForOwner(_ context.Context, ownerID int64) ([]*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*project.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Create implements project.Repository.
func (r *Repository) Create(_ context.Context, p *project.Project) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.CreatedAt = r.now()
	cp := *p
	cp.ID = r.nextID
	r.projects[cp.ID] = &cp
	return cp.ID, nil
}

// Get implements project.Repository.
func (r *Repository) Get(_ context.Context, ownerID, projectID int64) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.owned(ownerID, projectID)
	if !ok {
		return nil, project.Forbidden(ownerID, projectID)
	}
	cp := *p
	return &cp, nil
}

// Update implements project.Repository.
func (r *Repository) Update(_ context.Context, ownerID, projectID int64, name string, description *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.owned(ownerID, projectID)
	if !ok {
		return project.Forbidden(ownerID, projectID)
	}
	p.Name = name
	p.Description = description
	return nil
}

// Delete implements project.Repository.
func (r *Repository) Delete(_ context.Context, ownerID, projectID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(ownerID, projectID); !ok {
		return project.Forbidden(ownerID, projectID)
	}
	delete(r.projects, projectID)
	for id, l := range r.languages {
		if l.ProjectID == projectID {
			delete(r.languages, id)
		}
	}
	return nil
}

// CreateLanguage implements project.Repository.
func (r *Repository) CreateLanguage(_ context.Context, ownerID int64, l *project.Language) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(ownerID, l.ProjectID); !ok {
		return 0, project.Forbidden(ownerID, l.ProjectID)
	}
	if l.ParentID != nil {
		parent, ok := r.languages[*l.ParentID]
		if !ok || parent.ProjectID != l.ProjectID {
			return 0, project.Forbidden(ownerID, l.ProjectID)
		}
	}
	r.nextLang++
	l.CreatedAt = r.now()
	cp := *l
	cp.ID = r.nextLang
	r.languages[cp.ID] = &cp
	return cp.ID, nil
}

// ListLanguages implements project.Repository.
func (r *Repository) ListLanguages(_ context.Context, ownerID, projectID int64) ([]*project.Language, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(ownerID, projectID); !ok {
		return nil, project.Forbidden(ownerID, projectID)
	}
	out := []*project.Language{}
	for _, l := range r.languages {
		if l.ProjectID == projectID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) owned(ownerID, projectID int64) (*project.Project, bool) {
	p, ok := r.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return nil, false
	}
	return p, true
}

var _ project.Repository = (*Repository)(nil)
