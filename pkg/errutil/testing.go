// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails the test unless Code(err) is code, the same lookup
// the HTTP layer uses to pick a status.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err, "expected an error coded %s", code)
	assert.Equal(t, code, Code(err), "error: %v", err)
}

// AssertErrorContext fails the test unless the oops context merged across
// err's chain holds key with value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	require.Error(t, err, "expected an error with context %s", key)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	got, ok := oopsErr.Context()[key]
	require.True(t, ok, "context key %q missing from %v", key, oopsErr.Context())
	assert.Equal(t, value, got)
}
