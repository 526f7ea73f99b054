// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

//go:build integration

package store_test

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgerrcode"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/conlang-studio/studio/internal/store"
	"github.com/conlang-studio/studio/internal/store/storetest"
)

var _ = Describe("Schema migrations", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		dsn       string
		migrator  *store.Migrator
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, dsn, err = storetest.Start(ctx)
		Expect(err).NotTo(HaveOccurred())

		migrator, err = store.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if migrator != nil {
			Expect(migrator.Close()).To(Succeed())
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	It("starts at version zero with everything pending", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2, 3, 4}))
	})

	It("applies, steps back, and re-applies", func() {
		Expect(migrator.Up()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(4)))

		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(3)))

		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Up()).To(Succeed(), "re-running Up is a no-op")
	})

	It("enforces case-insensitive unique usernames", func() {
		pool, err := store.Connect(ctx, dsn, 0)
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		_, err = pool.Exec(ctx, `INSERT INTO users (username, password_hash) VALUES ('Bob', 'x')`)
		Expect(err).NotTo(HaveOccurred())

		_, err = pool.Exec(ctx, `INSERT INTO users (username, password_hash) VALUES ('bob', 'x')`)
		var pgErr *pgconn.PgError
		Expect(errors.As(err, &pgErr)).To(BeTrue())
		Expect(pgErr.Code).To(Equal(pgerrcode.UniqueViolation))
	})

	It("rolls a failed transaction back", func() {
		pool, err := store.Connect(ctx, dsn, 0)
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		tr := store.NewTransactor(pool)
		boom := errors.New("boom")
		err = tr.InTransaction(ctx, func(ctx context.Context) error {
			_, execErr := store.QuerierFrom(ctx, pool).Exec(ctx,
				`INSERT INTO users (username, password_hash) VALUES ('carol', 'x')`)
			Expect(execErr).NotTo(HaveOccurred())
			return boom
		})
		Expect(err).To(MatchError(boom))

		var count int
		Expect(pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE username = 'carol'`).Scan(&count)).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("rolls everything back with Down", func() {
		Expect(migrator.Down()).To(Succeed())
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())
	})
})
