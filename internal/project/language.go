// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/oops"
)

// LanguageKind classifies a language within a project's family tree.
type LanguageKind string

// Language kinds.
const (
	KindProto    LanguageKind = "proto"
	KindDaughter LanguageKind = "daughter"
	KindIsolate  LanguageKind = "isolate"
)

// Valid reports whether k is a known kind.
func (k LanguageKind) Valid() bool {
	switch k {
	case KindProto, KindDaughter, KindIsolate:
		return true
	}
	return false
}

// Language is a constructed language inside a project. Daughter languages
// descend from a parent in the same project.
type Language struct {
	ID        int64        `json:"id"`
	ProjectID int64        `json:"project_id"`
	Name      string       `json:"name"`
	Kind      LanguageKind `json:"kind"`
	ParentID  *int64       `json:"parent_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewLanguage validates input for a new language. A daughter needs a parent;
// proto and isolate languages must not have one.
func NewLanguage(projectID int64, name string, kind LanguageKind, parentID *int64) (*Language, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, invalid("name", "name cannot be empty")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return nil, invalid("name", "name must be at most %d characters", MaxNameLength)
	case !kind.Valid():
		return nil, oops.Code(CodeValidation).
			With("field", "kind").
			With("kind", kind).
			Wrapf(ErrValidation, "kind must be one of proto, daughter, isolate")
	case kind == KindDaughter && parentID == nil:
		return nil, invalid("parent_id", "daughter language requires a parent")
	case kind != KindDaughter && parentID != nil:
		return nil, invalid("parent_id", "only daughter languages have a parent")
	case parentID != nil && *parentID <= 0:
		return nil, invalid("parent_id", "parent ID must be positive")
	}
	return &Language{ProjectID: projectID, Name: name, Kind: kind, ParentID: parentID}, nil
}
