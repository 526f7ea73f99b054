// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package storetest starts a disposable PostgreSQL for integration tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/conlang-studio/studio/internal/store"
)

// Database is a migrated PostgreSQL container and a pool connected to it.
type Database struct {
	DSN       string
	Pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

// Start runs a postgres:16-alpine container and returns its connection
// string without touching the schema.
func Start(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("studio_test"),
		postgres.WithUsername("studio"),
		postgres.WithPassword("studio"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", oops.With("operation", "start postgres container").Wrap(err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx) //nolint:errcheck // startup error takes precedence
		return nil, "", oops.With("operation", "get connection string").Wrap(err)
	}
	return container, dsn, nil
}

// StartMigrated runs a container, applies every migration, and connects a pool.
func StartMigrated(ctx context.Context) (*Database, error) {
	container, dsn, err := Start(ctx)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*Database, error) {
		_ = container.Terminate(ctx) //nolint:errcheck // setup error takes precedence
		return nil, err
	}

	migrator, err := store.NewMigrator(dsn)
	if err != nil {
		return fail(err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return fail(err)
	}
	if err := migrator.Close(); err != nil {
		return fail(err)
	}

	pool, err := store.Connect(ctx, dsn, 3)
	if err != nil {
		return fail(err)
	}

	return &Database{DSN: dsn, Pool: pool, container: container}, nil
}

// Truncate empties every application table so tests start from a clean slate.
func (d *Database) Truncate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, `TRUNCATE languages, projects, sessions, users RESTART IDENTITY CASCADE`)
	return err
}

// Close releases the pool and terminates the container.
func (d *Database) Close(ctx context.Context) {
	d.Pool.Close()
	_ = d.container.Terminate(ctx) //nolint:errcheck // best effort during teardown
}
