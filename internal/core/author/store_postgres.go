// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"fmt"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListAuthors(ctx context.Context, limit, offset int) ([]*Author, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.Bio,
		schema.CoreAuthor.Table, schema.CoreAuthor.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreAuthor.Table)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_authors")
	}

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, total, dberr.Wrap(rows.Err(), "list_authors")
}

func (repository *PostgresRepository) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.CoreAuthor.ID, schema.CoreAuthor.Name, schema.CoreAuthor.Bio,
		schema.CoreAuthor.Table, schema.CoreAuthor.ID,
	)

	a := &Author{}
	if err := repository.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Bio); err != nil {
		return nil, dberr.Wrap(err, "get_author")
	}
	return a, nil
}

func (repository *PostgresRepository) CreateAuthor(ctx context.Context, a *Author) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name, schema.CoreAuthor.Bio,
		schema.CoreAuthor.ID,
	)

	err := repository.db.QueryRow(ctx, query, a.Name, a.Bio).Scan(&a.ID)
	return mapWriteError(err, "create_author")
}

func (repository *PostgresRepository) UpdateAuthor(ctx context.Context, a *Author) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreAuthor.Table, schema.CoreAuthor.Name, schema.CoreAuthor.Bio, schema.CoreAuthor.UpdatedAt,
		schema.CoreAuthor.ID,
		schema.CoreAuthor.ID,
	)

	err := repository.db.QueryRow(ctx, query, a.ID, a.Name, a.Bio).Scan(&a.ID)
	return mapWriteError(err, "update_author")
}

// DeleteAuthor removes the author. books.author_id is ON DELETE RESTRICT, so an
// author that still owns books is refused with a Conflict.
func (repository *PostgresRepository) DeleteAuthor(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreAuthor.Table, schema.CoreAuthor.ID)

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return apperr.Conflict(MessageHasBooks)
		}
		return dberr.Wrap(err, "delete_author")
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
