package pgutils

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a transaction.
// It commits if fn returns nil, otherwise it rolls back.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	_, err := WithTxResult(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, fn(tx)
	})

	return err
}

// WithTxResult is WithTx for callbacks that produce a value.
// The value is returned only when the transaction commits.
func WithTxResult[T any](ctx context.Context, db *sql.DB, fn func(*sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}

	out, err := fn(tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return zero, fmt.Errorf("rollback after fn error: %v (fn err: %w)", rbErr, err)
		}

		return zero, err
	}

	err = tx.Commit()
	if err != nil {
		return zero, fmt.Errorf("commit tx: %w", err)
	}

	return out, nil
}
