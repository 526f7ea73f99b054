// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package project stores conlang projects and their languages. Every
// operation is scoped to the owning user.
package project

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/oops"
)

// MaxNameLength bounds project and language names.
const MaxNameLength = 200

// Sentinel errors, wrapped with an oops code by every returned error.
var (
	// ErrForbidden is returned for any project the caller does not own,
	// including projects that do not exist.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated is returned when the caller has no resolved identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error codes.
const (
	CodeForbidden       = "PROJECT_FORBIDDEN"
	CodeValidation      = "PROJECT_VALIDATION"
	CodePersistence     = "PROJECT_PERSISTENCE"
	CodeUnauthenticated = "PROJECT_UNAUTHENTICATED"
)

// Project is a conlang project. OwnerID is set at creation and never changes.
// A nil Description means none was set.
type Project struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject validates and normalizes input for a new project. The name is
// trimmed and required; a description that is empty after trimming becomes nil.
func NewProject(ownerID int64, name, description string) (*Project, error) {
	if ownerID <= 0 {
		return nil, oops.Code(CodeUnauthenticated).With("owner_id", ownerID).Wrap(ErrUnauthenticated)
	}
	name, desc, err := normalize(name, description)
	if err != nil {
		return nil, err
	}
	return &Project{OwnerID: ownerID, Name: name, Description: desc}, nil
}

func normalize(name, description string) (string, *string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, invalid("name", "name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", nil, invalid("name", "name must be at most %d characters", MaxNameLength)
	}
	return name, optional(description), nil
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func invalid(field, format string, args ...any) error {
	return oops.Code(CodeValidation).With("field", field).Wrapf(ErrValidation, format, args...)
}

// Forbidden builds the error returned when a project is missing or owned
// by someone else. The two cases are indistinguishable to the caller.
func Forbidden(ownerID, projectID int64) error {
	return oops.Code(CodeForbidden).
		With("owner_id", ownerID).
		With("project_id", projectID).
		Wrap(ErrForbidden)
}

// Repository persists projects and languages. Every method is scoped by
// ownerID; mutations and reads of a single project verify ownership in the
// same statement and return ErrForbidden when it does not hold.
type Repository interface {
	// ListForOwner returns the owner's projects newest first. An owner with
	// no projects gets an empty slice.
	ListForOwner(ctx context.Context, ownerID int64) ([]*Project, error)

	// Create inserts p, sets p.CreatedAt, and returns the new id.
	Create(ctx context.Context, p *Project) (int64, error)

	// Get returns one project owned by ownerID.
	Get(ctx context.Context, ownerID, projectID int64) (*Project, error)

	// Update replaces name and description of a project owned by ownerID.
	Update(ctx context.Context, ownerID, projectID int64, name string, description *string) error

	// Delete removes a project owned by ownerID along with its languages.
	Delete(ctx context.Context, ownerID, projectID int64) error

	// CreateLanguage inserts l if its project (and parent, if any) belongs
	// to ownerID.
	CreateLanguage(ctx context.Context, ownerID int64, l *Language) (int64, error)

	// ListLanguages returns the languages of a project owned by ownerID.
	ListLanguages(ctx context.Context, ownerID, projectID int64) ([]*Language, error)
}
