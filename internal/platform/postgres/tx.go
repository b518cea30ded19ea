// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WithTx runs fn inside a single transaction.
//
// The transaction is committed only when fn returns nil; any error (or panic)
// rolls it back so no partial write is ever visible.
func WithTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}

	// Rollback is a no-op after a successful commit.
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}

	return nil
}
