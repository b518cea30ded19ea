// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// genreColumns selects a genre together with the number of books tagged with it.
var genreColumns = fmt.Sprintf(`
	g.%s, g.%s,
	(SELECT count(*) FROM %s bg WHERE bg.%s = g.%s) AS book_count`,
	schema.CoreGenre.ID, schema.CoreGenre.Name,
	schema.CoreBookGenre.Table, schema.CoreBookGenre.GenreID, schema.CoreGenre.ID,
)

func scanGenre(row pgx.Row) (*Genre, error) {
	genre := &Genre{}
	if err := row.Scan(&genre.ID, &genre.Name, &genre.BookCount); err != nil {
		return nil, err
	}
	return genre, nil
}

func (repository *PostgresRepository) ListGenres(ctx context.Context, limit, offset int) ([]*Genre, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreGenre.Table)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s g
		ORDER BY g.%s ASC
		LIMIT $1 OFFSET $2
	`, genreColumns, schema.CoreGenre.Table, schema.CoreGenre.ID)

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := []*Genre{}
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, genre)
	}

	return genres, total, dberr.Wrap(rows.Err(), "list_genres")
}

func (repository *PostgresRepository) GetGenre(ctx context.Context, id int64) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s g WHERE g.%s = $1`, genreColumns, schema.CoreGenre.Table, schema.CoreGenre.ID)

	genre, err := scanGenre(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre")
	}
	return genre, nil
}

func (repository *PostgresRepository) FindGenreByKey(ctx context.Context, nameKey string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s g WHERE g.%s = $1`, genreColumns, schema.CoreGenre.Table, schema.CoreGenre.NameKey)

	genre, err := scanGenre(repository.db.QueryRow(ctx, query, nameKey))
	if err != nil {
		return nil, dberr.Wrap(err, "find_genre_by_key")
	}
	return genre, nil
}

func (repository *PostgresRepository) CreateGenre(ctx context.Context, genre *Genre, nameKey string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s
	`, schema.CoreGenre.Table, schema.CoreGenre.Name, schema.CoreGenre.NameKey, schema.CoreGenre.ID)

	err := repository.db.QueryRow(ctx, query, genre.Name, nameKey).Scan(&genre.ID)
	return mapWriteError(err, "create_genre")
}

func (repository *PostgresRepository) UpdateGenre(ctx context.Context, genre *Genre, nameKey string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreGenre.Table, schema.CoreGenre.Name, schema.CoreGenre.NameKey,
		schema.CoreGenre.ID,
		schema.CoreGenre.ID,
	)

	err := repository.db.QueryRow(ctx, query, genre.ID, genre.Name, nameKey).Scan(&genre.ID)
	return mapWriteError(err, "update_genre")
}

// DeleteGenre removes the genre; its book links cascade.
func (repository *PostgresRepository) DeleteGenre(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreGenre.Table, schema.CoreGenre.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func mapWriteError(err error, action string) error {
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict(MessageNameTaken)
	}
	return dberr.Wrap(err, action)
}
