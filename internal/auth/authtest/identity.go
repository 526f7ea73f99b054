// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package authtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conlang-studio/studio/internal/auth"
)

// NewIdentity returns a real auth.Identity for userID by creating and
// resolving a session against an in-memory store.
func NewIdentity(t testing.TB, userID int64, username string) auth.Identity {
	t.Helper()
	ctx := context.Background()

	mgr, err := auth.NewSessionManager(NewSessions())
	require.NoError(t, err)

	token, err := mgr.Create(ctx, userID, username)
	require.NoError(t, err)

	id, ok, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	return id
}
