// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

/*
TestWithTx_Commit commits when the callback succeeds.
*/
func TestWithTx_Commit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM book_genres").WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	err = postgres.WithTx(context.Background(), mock, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(context.Background(), "DELETE FROM book_genres WHERE book_id = $1", int64(1))
		return execErr
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestWithTx_Rollback rolls back and surfaces the callback error.
*/
func TestWithTx_Rollback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = postgres.WithTx(context.Background(), mock, func(tx pgx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
