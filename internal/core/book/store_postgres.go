// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

// Constraint names declared by the schema migration.
const (
	constraintISBNUnique  = "books_isbn_key"
	constraintAuthorFK    = "books_author_fk"
	constraintGenreLinkFK = "book_genre_genre_fk"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookColumns selects a book row plus its genres aggregated as a JSON array.
var bookColumns = fmt.Sprintf(`
	b.%s, b.%s, b.%s, b.%s, b.%s,
	COALESCE((
		SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s) ORDER BY g.%s)
		FROM %s g
		JOIN %s bg ON g.%s = bg.%s
		WHERE bg.%s = b.%s
	), '[]') AS genres`,
	schema.CoreBook.ID, schema.CoreBook.Title, schema.CoreBook.PublicationYear, schema.CoreBook.ISBN, schema.CoreBook.AuthorID,
	schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.ID,
	schema.CoreGenre.Table,
	schema.CoreBookGenre.Table, schema.CoreGenre.ID, schema.CoreBookGenre.GenreID,
	schema.CoreBookGenre.BookID, schema.CoreBook.ID,
)

func scanBook(row pgx.Row, extra ...any) (*Book, error) {
	book := &Book{}
	dest := append([]any{&book.ID, &book.Title, &book.PublicationYear, &book.ISBN, &book.AuthorID, &book.Genres}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if book.Genres == nil {
		book.Genres = []GenreRef{}
	}
	return book, nil
}

func (repository *PostgresRepository) ListBooks(ctx context.Context, limit, offset int) ([]*Book, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreBook.Table)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_books")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s b
		ORDER BY b.%s ASC
		LIMIT $1 OFFSET $2
	`, bookColumns, schema.CoreBook.Table, schema.CoreBook.ID)

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, book)
	}

	return books, total, dberr.Wrap(rows.Err(), "list_books")
}

func (repository *PostgresRepository) GetBook(ctx context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s b
		WHERE b.%s = $1
	`, bookColumns, schema.CoreBook.Table, schema.CoreBook.ID)

	book, err := scanBook(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return book, nil
}

func (repository *PostgresRepository) AuthorExists(ctx context.Context, authorID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreAuthor.Table, schema.CoreAuthor.ID)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "author_exists")
	}
	return exists, nil
}

/*
CreateBook inserts the book row and its genre links.

Description: Both statements run in a single transaction, so a rejected
genre link leaves no book behind. The author and ISBN constraints stay the
final authority when a concurrent writer slips past the service checks.
*/
func (repository *PostgresRepository) CreateBook(ctx context.Context, book *Book, genreIDs []int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.CoreBook.Table,
		schema.CoreBook.Title, schema.CoreBook.PublicationYear, schema.CoreBook.ISBN, schema.CoreBook.AuthorID,
		schema.CoreBook.ID,
	)

	err := postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, book.Title, book.PublicationYear, book.ISBN, book.AuthorID).Scan(&book.ID); err != nil {
			return err
		}
		return insertGenreLinks(ctx, tx, book.ID, genreIDs)
	})
	return mapWriteError(err, "create_book")
}

// UpdateBook loses to a concurrent delete with ErrNotFound; it never recreates the row.
func (repository *PostgresRepository) UpdateBook(ctx context.Context, book *Book, genreIDs []int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreBook.Table,
		schema.CoreBook.Title, schema.CoreBook.PublicationYear, schema.CoreBook.ISBN, schema.CoreBook.AuthorID, schema.CoreBook.UpdatedAt,
		schema.CoreBook.ID,
		schema.CoreBook.ID,
	)
	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBookGenre.Table, schema.CoreBookGenre.BookID)

	err := postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, book.ID, book.Title, book.PublicationYear, book.ISBN, book.AuthorID).Scan(&book.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, clearQuery, book.ID); err != nil {
			return err
		}
		return insertGenreLinks(ctx, tx, book.ID, genreIDs)
	})
	return mapWriteError(err, "update_book")
}

// DeleteBook removes the book; reviews and genre links cascade.
func (repository *PostgresRepository) DeleteBook(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBook.Table, schema.CoreBook.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
TopRated ranks reviewed books by their mean rating.

Description: The inner join drops books without reviews. Ties on the
average fall back to the review count, then to the lowest id.
*/
func (repository *PostgresRepository) TopRated(ctx context.Context, limit int) ([]*RankedBook, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			AVG(r.%s)::float8 AS average_rating,
			COUNT(r.%s) AS review_count
		FROM %s b
		JOIN %s r ON r.%s = b.%s
		GROUP BY b.%s
		ORDER BY average_rating DESC, review_count DESC, b.%s ASC
		LIMIT $1
	`,
		bookColumns,
		schema.CoreReview.Rating,
		schema.CoreReview.ID,
		schema.CoreBook.Table,
		schema.CoreReview.Table, schema.CoreReview.BookID, schema.CoreBook.ID,
		schema.CoreBook.ID,
		schema.CoreBook.ID,
	)

	rows, err := repository.db.Query(ctx, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "top_rated")
	}
	defer rows.Close()

	ranked := []*RankedBook{}
	for rows.Next() {
		var average float64
		var count int
		book, err := scanBook(rows, &average, &count)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_ranked_book")
		}
		ranked = append(ranked, &RankedBook{Book: *book, AverageRating: average, ReviewCount: count})
	}

	return ranked, dberr.Wrap(rows.Err(), "top_rated")
}

// insertGenreLinks writes every (book, genre) pair in one statement.
func insertGenreLinks(ctx context.Context, tx pgx.Tx, bookID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, unnest($2::bigint[])
	`, schema.CoreBookGenre.Table, schema.CoreBookGenre.BookID, schema.CoreBookGenre.GenreID)

	_, err := tx.Exec(ctx, query, bookID, genreIDs)
	return err
}

func mapWriteError(err error, action string) error {
	if err == nil {
		return nil
	}

	switch dberr.Constraint(err) {
	case constraintISBNUnique:
		return apperr.Conflict(MessageISBNTaken)
	case constraintAuthorFK:
		return apperr.NotFound("Author")
	case constraintGenreLinkFK:
		return apperr.NotFound("Genre")
	}
	return dberr.Wrap(err, action)
}
