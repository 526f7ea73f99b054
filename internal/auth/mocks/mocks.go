// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package mocks provides testify mocks for the auth interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}
