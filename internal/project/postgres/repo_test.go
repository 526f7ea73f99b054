// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlang-studio/studio/internal/project"
	"github.com/conlang-studio/studio/internal/project/postgres"
	"github.com/conlang-studio/studio/pkg/errutil"
)

var projectColumns = []string{"id", "owner_id", "name", "description", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func strPtr(s string) *string { return &s }

func TestProjectRepository_ListForOwner(t *testing.T) {
	ctx := context.Background()
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	t.Run("returns rows in query order", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, owner_id, name, description, created_at\s+FROM projects\s+WHERE owner_id = \$1\s+ORDER BY created_at DESC, id DESC`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(projectColumns).
				AddRow(int64(2), int64(1), "Dwarvish", strPtr("runes"), newer).
				AddRow(int64(1), int64(1), "Elvish", (*string)(nil), older))

		projects, err := postgres.NewProjectRepository(mock).ListForOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "Dwarvish", projects[0].Name)
		assert.Equal(t, "runes", *projects[0].Description)
		assert.Equal(t, "Elvish", projects[1].Name)
		assert.Nil(t, projects[1].Description)
	})

	t.Run("no projects is an empty slice", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM projects`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(projectColumns))

		projects, err := postgres.NewProjectRepository(mock).ListForOwner(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, projects)
		assert.Empty(t, projects)
	})

	t.Run("query failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM projects`).
			WithArgs(int64(1)).
			WillReturnError(errors.New("connection refused"))

		_, err := postgres.NewProjectRepository(mock).ListForOwner(ctx, 1)
		errutil.AssertErrorCode(t, err, project.CodePersistence)
	})
}

func TestProjectRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("returns id and creation time", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(int64(1), "Elvish", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), created))

		p := &project.Project{OwnerID: 1, Name: "Elvish"}
		id, err := postgres.NewProjectRepository(mock).Create(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(9), id)
		assert.Equal(t, created, p.CreatedAt)
	})

	t.Run("insert failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(int64(1), "Elvish", pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))

		_, err := postgres.NewProjectRepository(mock).Create(ctx, &project.Project{OwnerID: 1, Name: "Elvish"})
		errutil.AssertErrorCode(t, err, project.CodePersistence)
	})
}

func TestProjectRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("owned project", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`WHERE id = \$1 AND owner_id = \$2`).
			WithArgs(int64(5), int64(1)).
			WillReturnRows(pgxmock.NewRows(projectColumns).
				AddRow(int64(5), int64(1), "Elvish", (*string)(nil), time.Now()))

		p, err := postgres.NewProjectRepository(mock).Get(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), p.ID)
	})

	t.Run("missing or foreign project is forbidden", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`WHERE id = \$1 AND owner_id = \$2`).
			WithArgs(int64(5), int64(2)).
			WillReturnRows(pgxmock.NewRows(projectColumns))

		_, err := postgres.NewProjectRepository(mock).Get(ctx, 2, 5)
		require.ErrorIs(t, err, project.ErrForbidden)
		errutil.AssertErrorCode(t, err, project.CodeForbidden)
	})
}

func TestProjectRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		run       func(r *postgres.ProjectRepository) error
		wantErrIs error
		wantCode  string
	}{
		{
			name: "update owned",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE projects`).
					WithArgs(int64(5), int64(1), "Sindarin", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			run: func(r *postgres.ProjectRepository) error {
				return r.Update(ctx, 1, 5, "Sindarin", strPtr("grey"))
			},
		},
		{
			name: "update foreign is forbidden",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE projects`).
					WithArgs(int64(5), int64(2), "Stolen", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			run: func(r *postgres.ProjectRepository) error {
				return r.Update(ctx, 2, 5, "Stolen", nil)
			},
			wantErrIs: project.ErrForbidden,
			wantCode:  project.CodeForbidden,
		},
		{
			name: "update failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE projects`).
					WithArgs(int64(5), int64(1), "Sindarin", pgxmock.AnyArg()).
					WillReturnError(errors.New("deadlock detected"))
			},
			run: func(r *postgres.ProjectRepository) error {
				return r.Update(ctx, 1, 5, "Sindarin", nil)
			},
			wantCode: project.CodePersistence,
		},
		{
			name: "delete owned",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM projects WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(int64(5), int64(1)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			run: func(r *postgres.ProjectRepository) error { return r.Delete(ctx, 1, 5) },
		},
		{
			name: "delete foreign is forbidden",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM projects`).
					WithArgs(int64(5), int64(2)).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			run:       func(r *postgres.ProjectRepository) error { return r.Delete(ctx, 2, 5) },
			wantErrIs: project.ErrForbidden,
			wantCode:  project.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			err := tt.run(postgres.NewProjectRepository(mock))
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestProjectRepository_CreateLanguage(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts when project is owned", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO languages`).
			WithArgs(int64(5), int64(1), "Proto-Elvish", "proto", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))

		l := &project.Language{ProjectID: 5, Name: "Proto-Elvish", Kind: project.KindProto}
		id, err := postgres.NewProjectRepository(mock).CreateLanguage(ctx, 1, l)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		assert.False(t, l.CreatedAt.IsZero())
	})

	t.Run("no row inserted is forbidden", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO languages`).
			WithArgs(int64(5), int64(2), "Quenya", "isolate", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}))

		l := &project.Language{ProjectID: 5, Name: "Quenya", Kind: project.KindIsolate}
		_, err := postgres.NewProjectRepository(mock).CreateLanguage(ctx, 2, l)
		require.ErrorIs(t, err, project.ErrForbidden)
	})
}

func TestProjectRepository_ListLanguages(t *testing.T) {
	ctx := context.Background()
	langColumns := []string{"id", "project_id", "name", "kind", "parent_id", "created_at"}

	t.Run("returns languages", func(t *testing.T) {
		mock := newMock(t)
		parent := int64(1)
		mock.ExpectQuery(`JOIN projects p ON p.id = l.project_id`).
			WithArgs(int64(5), int64(1)).
			WillReturnRows(pgxmock.NewRows(langColumns).
				AddRow(int64(1), int64(5), "Proto-Elvish", "proto", (*int64)(nil), time.Now()).
				AddRow(int64(2), int64(5), "Sindarin", "daughter", &parent, time.Now()))

		langs, err := postgres.NewProjectRepository(mock).ListLanguages(ctx, 1, 5)
		require.NoError(t, err)
		require.Len(t, langs, 2)
		assert.Equal(t, project.KindProto, langs[0].Kind)
		assert.Nil(t, langs[0].ParentID)
		assert.Equal(t, project.KindDaughter, langs[1].Kind)
		assert.Equal(t, int64(1), *langs[1].ParentID)
	})

	t.Run("owned project without languages", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`JOIN projects`).
			WithArgs(int64(5), int64(1)).
			WillReturnRows(pgxmock.NewRows(langColumns))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(5), int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		langs, err := postgres.NewProjectRepository(mock).ListLanguages(ctx, 1, 5)
		require.NoError(t, err)
		assert.Empty(t, langs)
	})

	t.Run("foreign project is forbidden", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`JOIN projects`).
			WithArgs(int64(5), int64(2)).
			WillReturnRows(pgxmock.NewRows(langColumns))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(5), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := postgres.NewProjectRepository(mock).ListLanguages(ctx, 2, 5)
		require.ErrorIs(t, err, project.ErrForbidden)
	})
}
