// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package postgres implements project.Repository on PostgreSQL. Every
// statement filters on owner_id, so ownership is checked atomically with the
// read or write it guards.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/project"
	"github.com/conlang-studio/studio/internal/store"
)

// ProjectRepository implements project.Repository using PostgreSQL.
type ProjectRepository struct {
	db store.Querier
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db store.Querier) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListForOwner returns the owner's projects newest first.
func (r *ProjectRepository) ListForOwner(ctx context.Context, ownerID int64) ([]*project.Project, error) {
	rows, err := store.QuerierFrom(ctx, r.db).Query(ctx, `
		SELECT id, owner_id, name, description, created_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, persistence("list projects", ownerID, 0, err)
	}
	defer rows.Close()

	projects := []*project.Project{}
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, persistence("scan project", ownerID, 0, err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("iterate projects", ownerID, 0, err)
	}
	return projects, nil
}

// Create inserts p and fills in its creation time.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (int64, error) {
	var id int64
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		INSERT INTO projects (owner_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, p.OwnerID, p.Name, p.Description).Scan(&id, &p.CreatedAt)
	if err != nil {
		return 0, persistence("insert project", p.OwnerID, 0, err)
	}
	return id, nil
}

// Get returns a project owned by ownerID.
func (r *ProjectRepository) Get(ctx context.Context, ownerID, projectID int64) (*project.Project, error) {
	var p project.Project
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`, projectID, ownerID).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, project.Forbidden(ownerID, projectID)
	}
	if err != nil {
		return nil, persistence("get project", ownerID, projectID, err)
	}
	return &p, nil
}

// Update replaces name and description in one owner-filtered statement.
func (r *ProjectRepository) Update(ctx context.Context, ownerID, projectID int64, name string, description *string) error {
	tag, err := store.QuerierFrom(ctx, r.db).Exec(ctx, `
		UPDATE projects
		SET name = $3, description = $4
		WHERE id = $1 AND owner_id = $2
	`, projectID, ownerID, name, description)
	if err != nil {
		return persistence("update project", ownerID, projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return project.Forbidden(ownerID, projectID)
	}
	return nil
}

// Delete removes a project; its languages go with it via ON DELETE CASCADE.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, projectID int64) error {
	tag, err := store.QuerierFrom(ctx, r.db).Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND owner_id = $2`, projectID, ownerID)
	if err != nil {
		return persistence("delete project", ownerID, projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return project.Forbidden(ownerID, projectID)
	}
	return nil
}

// CreateLanguage inserts l only when its project belongs to ownerID and its
// parent, if any, belongs to the same project.
func (r *ProjectRepository) CreateLanguage(ctx context.Context, ownerID int64, l *project.Language) (int64, error) {
	var id int64
	err := store.QuerierFrom(ctx, r.db).QueryRow(ctx, `
		INSERT INTO languages (project_id, name, kind, parent_id)
		SELECT p.id, $3, $4, $5
		FROM projects p
		WHERE p.id = $1 AND p.owner_id = $2
		  AND ($5::BIGINT IS NULL OR EXISTS (
		      SELECT 1 FROM languages parent
		      WHERE parent.id = $5 AND parent.project_id = p.id))
		RETURNING id, created_at
	`, l.ProjectID, ownerID, l.Name, string(l.Kind), l.ParentID).Scan(&id, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, project.Forbidden(ownerID, l.ProjectID)
	}
	if err != nil {
		return 0, persistence("insert language", ownerID, l.ProjectID, err)
	}
	return id, nil
}

// ListLanguages returns a project's languages in creation order.
func (r *ProjectRepository) ListLanguages(ctx context.Context, ownerID, projectID int64) ([]*project.Language, error) {
	q := store.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT l.id, l.project_id, l.name, l.kind, l.parent_id, l.created_at
		FROM languages l
		JOIN projects p ON p.id = l.project_id
		WHERE l.project_id = $1 AND p.owner_id = $2
		ORDER BY l.id
	`, projectID, ownerID)
	if err != nil {
		return nil, persistence("list languages", ownerID, projectID, err)
	}
	defer rows.Close()

	langs := []*project.Language{}
	for rows.Next() {
		var (
			l    project.Language
			kind string
		)
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Name, &kind, &l.ParentID, &l.CreatedAt); err != nil {
			return nil, persistence("scan language", ownerID, projectID, err)
		}
		l.Kind = project.LanguageKind(kind)
		langs = append(langs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("iterate languages", ownerID, projectID, err)
	}
	if len(langs) > 0 {
		return langs, nil
	}

	// No rows: either the project has no languages or the caller does not own it.
	var owned bool
	err = q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND owner_id = $2)`,
		projectID, ownerID).Scan(&owned)
	if err != nil {
		return nil, persistence("check project owner", ownerID, projectID, err)
	}
	if !owned {
		return nil, project.Forbidden(ownerID, projectID)
	}
	return langs, nil
}

func persistence(op string, ownerID, projectID int64, err error) error {
	return oops.Code(project.CodePersistence).
		With("operation", op).
		With("owner_id", ownerID).
		With("project_id", projectID).
		Wrap(err)
}

// Compile-time interface check.
var _ project.Repository = (*ProjectRepository)(nil)
