// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import "errors"

// Sentinel errors. Returned errors wrap one of these with an oops code, so
// callers match with errors.Is and log with the code.
var (
	// ErrNotFound is returned by repositories when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// Error codes attached to returned errors.
const (
	CodeDuplicateUsername  = "AUTH_DUPLICATE_USERNAME"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeValidation         = "AUTH_VALIDATION"
	CodeHashingFailed      = "AUTH_HASHING_FAILED"
	CodePersistence        = "AUTH_PERSISTENCE"
	CodeSessionPersistence = "SESSION_PERSISTENCE"
)
