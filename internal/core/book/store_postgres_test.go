// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var bookRowColumns = []string{"id", "title", "publication_year", "isbn", "author_id", "genres"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *book.PostgresRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, book.NewPostgresRepository(mock)
}

func TestPostgresRepository_GetBook(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectQuery(`SELECT .+json_agg.+FROM books b\s+WHERE b.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows(bookRowColumns).
			AddRow(int64(1), "T", 2020, "123-0000000001", int64(3), []book.GenreRef{{ID: 2, Name: "Fantasy"}}))

	found, err := repository.GetBook(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "T", found.Title)
	assert.Equal(t, []book.GenreRef{{ID: 2, Name: "Fantasy"}}, found.Genres)

	mock.ExpectQuery(`FROM books b`).WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)

	_, err = repository.GetBook(context.Background(), 2)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListBooks(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM books`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY b.id ASC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(100, 0).
		WillReturnRows(mock.NewRows(bookRowColumns).
			AddRow(int64(1), "T", 2020, "123-0000000001", int64(3), []book.GenreRef(nil)))

	books, total, err := repository.ListBooks(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.NotNil(t, books[0].Genres, "genres serialize as an empty list")
}

/*
TestPostgresRepository_CreateBook commits the row and its genre links together.
*/
func TestPostgresRepository_CreateBook(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs("T", 2020, "123-0000000001", int64(3)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`INSERT INTO book_genre \(book_id, genre_id\)\s+SELECT \$1, unnest\(\$2::bigint\[\]\)`).
		WithArgs(int64(7), []int64{1, 2}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	created := &book.Book{Title: "T", PublicationYear: 2020, ISBN: "123-0000000001", AuthorID: 3}
	require.NoError(t, repository.CreateBook(context.Background(), created, []int64{1, 2}))
	assert.Equal(t, int64(7), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_CreateBook_Constraints maps each guarded constraint to its domain error.
*/
func TestPostgresRepository_CreateBook_Constraints(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		genreIDs   []int64
		wantCode   string
		wantString string
	}{
		{
			name:       "duplicate_isbn",
			pgErr:      &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_isbn_key"},
			wantCode:   apperr.CodeConflict,
			wantString: book.MessageISBNTaken,
		},
		{
			name:       "author_deleted_concurrently",
			pgErr:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "books_author_fk"},
			wantCode:   apperr.CodeNotFound,
			wantString: "Author not found",
		},
		{
			name:       "unknown_genre",
			pgErr:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "book_genre_genre_fk"},
			genreIDs:   []int64{99},
			wantCode:   apperr.CodeNotFound,
			wantString: "Genre not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock, repository := newMock(t)

			mock.ExpectBegin()
			insert := mock.ExpectQuery(`INSERT INTO books`).WithArgs("T", 2020, "123-0000000001", int64(3))
			if tc.genreIDs == nil {
				insert.WillReturnError(tc.pgErr)
			} else {
				insert.WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))
				mock.ExpectExec(`INSERT INTO book_genre`).WithArgs(int64(7), tc.genreIDs).WillReturnError(tc.pgErr)
			}
			mock.ExpectRollback()

			err := repository.CreateBook(context.Background(),
				&book.Book{Title: "T", PublicationYear: 2020, ISBN: "123-0000000001", AuthorID: 3}, tc.genreIDs)

			require.True(t, apperr.HasCode(err, tc.wantCode), "got %v", err)
			assert.Equal(t, tc.wantString, err.Error())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_UpdateBook(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE books`).
		WithArgs(int64(7), "T2", 2021, "123-0000000001", int64(3)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`DELETE FROM book_genre WHERE book_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	updated := &book.Book{ID: 7, Title: "T2", PublicationYear: 2021, ISBN: "123-0000000001", AuthorID: 3}
	require.NoError(t, repository.UpdateBook(context.Background(), updated, nil))

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE books`).
		WithArgs(int64(8), "T2", 2021, "123-0000000001", int64(3)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	missing := &book.Book{ID: 8, Title: "T2", PublicationYear: 2021, ISBN: "123-0000000001", AuthorID: 3}
	assert.ErrorIs(t, repository.UpdateBook(context.Background(), missing, nil), dberr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteBook(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectExec(`DELETE FROM books WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repository.DeleteBook(context.Background(), 7), dberr.ErrNotFound)
}

/*
TestPostgresRepository_TopRated inner-joins reviews and applies the tie-break order.
*/
func TestPostgresRepository_TopRated(t *testing.T) {
	mock, repository := newMock(t)

	columns := append(append([]string{}, bookRowColumns...), "average_rating", "review_count")
	mock.ExpectQuery(`FROM books b\s+JOIN reviews r ON r.book_id = b.id\s+GROUP BY b.id\s+ORDER BY average_rating DESC, review_count DESC, b.id ASC\s+LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(mock.NewRows(columns).
			AddRow(int64(1), "A", 2020, "123-0000000001", int64(3), []book.GenreRef{}, 4.5, 2).
			AddRow(int64(2), "B", 2020, "123-0000000002", int64(3), []book.GenreRef{}, 3.0, 1))

	ranked, err := repository.TopRated(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.InDelta(t, 4.5, ranked[0].AverageRating, 0.0001)
	assert.Equal(t, 1, ranked[1].ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AuthorExists(t *testing.T) {
	mock, repository := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM authors WHERE id = \$1\)`).
		WithArgs(int64(3)).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repository.AuthorExists(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, exists)
}
