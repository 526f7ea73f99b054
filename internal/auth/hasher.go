// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// Upper bounds accepted when decoding a stored hash. A corrupt row costs
// Verify at most four times the memory and time of a hash we issue.
const (
	maxArgon2Memory = 4 * argon2Memory
	maxArgon2Time   = 4 * argon2Time
	maxArgon2KeyLen = 128
)

// PasswordHasher hashes passwords and verifies them against stored hashes.
type PasswordHasher interface {
	// Hash returns a self-describing hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash is a
	// mismatch, never an error.
	Verify(password, hash string) bool
}

// Argon2idHasher implements PasswordHasher with argon2id encoded as a PHC
// string: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
type Argon2idHasher struct {
	rand io.Reader
}

// NewArgon2idHasher creates an Argon2idHasher salted from crypto/rand.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{rand: rand.Reader}
}

// Hash produces an argon2id hash of password with a fresh random salt.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", oops.Code(CodeHashingFailed).With("operation", "generate salt").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters embedded in encodedHash and
// compares in constant time. The derived key always has the stored key's
// length, so the comparison never short-circuits on length.
func (h *Argon2idHasher) Verify(password, encodedHash string) bool {
	p, ok := decodeArgon2id(encodedHash)
	if !ok {
		return false
	}
	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(computed, p.key) == 1
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func decodeArgon2id(encoded string) (argon2Params, bool) {
	var p argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, false
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return p, false
	}
	if threads == 0 || threads > 255 || p.time == 0 || p.time > maxArgon2Time ||
		p.memory == 0 || p.memory > maxArgon2Memory {
		return p, false
	}
	p.threads = uint8(threads)

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return p, false
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil ||
		len(p.key) == 0 || len(p.key) > maxArgon2KeyLen {
		return p, false
	}
	return p, true
}
