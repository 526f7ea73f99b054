// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package auth handles accounts, password hashing, and sessions.
//
// # Domain Types
//
//   - User - a registered account; usernames are unique case-insensitively
//   - Session - the server-side record behind an opaque token
//   - Identity - the principal a resolved session stands for
//
// Identity has no exported constructor. Code outside this package gets one
// only from SessionManager.Resolve, which is what lets other packages scope
// data access by Identity without trusting request payloads.
//
// # Services
//
//   - Service - register, login, logout
//   - SessionManager - create, resolve (sliding expiry), destroy
//   - Sweeper - background removal of expired sessions
//
// Services are created with New* constructors that validate dependencies.
package auth
