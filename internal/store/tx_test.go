// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlang-studio/studio/internal/store"
	"github.com/conlang-studio/studio/pkg/errutil"
)

func TestTransactor_InTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs("alice").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		tr := store.NewTransactor(mock)
		err = tr.InTransaction(ctx, func(ctx context.Context) error {
			_, execErr := store.QuerierFrom(ctx, mock).Exec(ctx, "INSERT INTO users (username) VALUES ($1)", "alice")
			return execErr
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns fn error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		tr := store.NewTransactor(mock)
		err = tr.InTransaction(ctx, func(context.Context) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is coded", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		tr := store.NewTransactor(mock)
		err = tr.InTransaction(ctx, func(context.Context) error { return nil })
		errutil.AssertErrorCode(t, err, "TX_BEGIN_FAILED")
	})

	t.Run("commit failure is coded", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
		mock.ExpectRollback()

		tr := store.NewTransactor(mock)
		err = tr.InTransaction(ctx, func(context.Context) error { return nil })
		errutil.AssertErrorCode(t, err, "TX_COMMIT_FAILED")
	})

	t.Run("nested call reuses outer transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		tr := store.NewTransactor(mock)
		err = tr.InTransaction(ctx, func(ctx context.Context) error {
			return tr.InTransaction(ctx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuerierFrom_WithoutTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	assert.Same(t, mock, store.QuerierFrom(context.Background(), mock))
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestReadinessCheck(t *testing.T) {
	assert.True(t, store.ReadinessCheck(fakePinger{}, time.Second)())
	assert.False(t, store.ReadinessCheck(fakePinger{err: errors.New("down")}, time.Second)())
}
