// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

// Identity is the authenticated principal behind a resolved session. Its
// fields are unexported: outside this package an Identity can only be
// obtained from SessionManager.Resolve, so data access scoped by an
// Identity is always scoped by a server-verified user.
type Identity struct {
	userID   int64
	username string
}

// UserID returns the authenticated user's id, or 0 for the zero Identity.
func (i Identity) UserID() int64 { return i.userID }

// Username returns the authenticated user's name.
func (i Identity) Username() string { return i.username }

// Authenticated reports whether i came from a resolved session.
func (i Identity) Authenticated() bool { return i.userID > 0 }
