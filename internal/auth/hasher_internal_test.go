// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlang-studio/studio/pkg/errutil"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestArgon2idHasher_HashFailsWhenRandomSourceFails(t *testing.T) {
	h := &Argon2idHasher{rand: failingReader{}}
	_, err := h.Hash("pw")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeHashingFailed)
}

func TestDecodeArgon2id_BoundsCost(t *testing.T) {
	const salt, key = "c2FsdHNhbHQ", "aGFzaGhhc2g"
	tests := []struct {
		name   string
		params string
		ok     bool
	}{
		{"issued parameters", "m=65536,t=1,p=4", true},
		{"memory at bound", "m=262144,t=1,p=4", true},
		{"memory over bound", "m=262145,t=1,p=4", false},
		{"one GiB", "m=1048576,t=1,p=4", false},
		{"time at bound", "m=65536,t=4,p=4", true},
		{"time over bound", "m=65536,t=5,p=4", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeArgon2id("$argon2id$v=19$" + tt.params + "$" + salt + "$" + key)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
