// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/conlang-studio/studio/pkg/errutil"
)

// Transactor runs fn inside one database transaction carried by ctx.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements registration, login, and logout on top of the
// credential store, the password hasher, and the session manager.
type Service struct {
	users    UserRepository
	sessions *SessionManager
	hasher   PasswordHasher
	tx       Transactor
	logger   *slog.Logger
}

// NewAuthService creates a Service that logs through slog.Default.
func NewAuthService(users UserRepository, sessions *SessionManager, hasher PasswordHasher, tx Transactor) (*Service, error) {
	return NewAuthServiceWithLogger(users, sessions, hasher, tx, slog.Default())
}

// NewAuthServiceWithLogger creates a Service with an explicit logger.
func NewAuthServiceWithLogger(users UserRepository, sessions *SessionManager, hasher PasswordHasher, tx Transactor, logger *slog.Logger) (*Service, error) {
	switch {
	case users == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("users repository is required")
	case sessions == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("session manager is required")
	case hasher == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	case tx == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("transactor is required")
	case logger == nil:
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("logger is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher, tx: tx, logger: logger}, nil
}

// Sessions returns the session manager backing this service.
func (s *Service) Sessions() *SessionManager { return s.sessions }

// dummyPasswordHash is verified when the username is unknown so that a
// missing user costs the same argon2 work as a wrong password.
//
//nolint:gosec // G101: not a credential; it never matches any password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates the account and its first session in one transaction
// and returns the session token. Of two concurrent registrations of the
// same name, exactly one commits; the other gets ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if err := ValidateUsername(username); err != nil {
		recordAttempt("register", OutcomeValidation)
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		recordAttempt("register", OutcomeValidation)
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		recordAttempt("register", OutcomeError)
		return "", oops.Code(CodeHashingFailed).With("operation", "hash password").Wrap(err)
	}

	var token string
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		userID, createErr := s.users.Create(ctx, username, hash)
		if createErr != nil {
			return createErr
		}
		token, createErr = s.sessions.Create(ctx, userID, username)
		return createErr
	})

	switch {
	case err == nil:
		recordAttempt("register", OutcomeSuccess)
		s.logger.InfoContext(ctx, "user registered", "username", username)
		return token, nil
	case errors.Is(err, ErrDuplicateUsername):
		recordAttempt("register", OutcomeDuplicate)
		return "", oops.Code(CodeDuplicateUsername).With("username", username).Wrap(err)
	default:
		recordAttempt("register", OutcomeError)
		wrapped := oops.Code(CodePersistence).With("operation", "register").With("username", username).Wrap(err)
		errutil.LogError(s.logger, "registration failed", wrapped)
		return "", wrapped
	}
}

// Login verifies the credentials and starts a new session. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials, and both
// pay for one argon2 verification.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, storedHash, err := s.lookupCredentials(ctx, username)
	if err != nil {
		recordAttempt("login", OutcomeError)
		errutil.LogError(s.logger, "credential lookup failed", err)
		return "", err
	}

	target := dummyPasswordHash
	if user != nil {
		target = storedHash
	}
	valid := s.hasher.Verify(password, target)

	if user == nil || !valid {
		recordAttempt("login", OutcomeInvalidCredentials)
		return "", invalidCredentials()
	}

	token, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		recordAttempt("login", OutcomeError)
		errutil.LogError(s.logger, "session creation failed", err)
		return "", err
	}

	recordAttempt("login", OutcomeSuccess)
	return token, nil
}

// lookupCredentials returns (nil, "", nil) for unknown users. Known and
// unknown names both cost one query.
func (s *Service) lookupCredentials(ctx context.Context, username string) (*User, string, error) {
	user, hash, err := s.users.Credentials(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", oops.Code(CodePersistence).With("operation", "get credentials").Wrap(err)
	}
	return user, hash, nil
}

func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Wrap(ErrInvalidCredentials)
}

// Logout destroys the session behind token. Unknown tokens succeed.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		errutil.LogError(s.logger, "logout failed", err)
		return err
	}
	return nil
}
