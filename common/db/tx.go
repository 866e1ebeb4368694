package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// serializationFailureCode is the SQLSTATE Postgres reports when a
// serializable transaction cannot be reconciled with its concurrent peers.
const serializationFailureCode = "40001"

// Querier is the subset of pgx used inside a transaction.
// Both pgx.Tx and *pgxpool.Pool satisfy it; repositories accept it so
// they can run against whichever handle the caller scopes them to.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFunc runs inside a transaction. Returning an error rolls the
// transaction back; returning nil commits it.
type TxFunc func(q Querier) error

// TxRunner executes a function inside a single serializable transaction
// attempt. Implemented by *DB; fakes implement it in tests.
type TxRunner interface {
	WithSerializable(ctx context.Context, fn TxFunc) error
}

// WithSerializable acquires a pooled connection, begins a transaction at
// serializable isolation, runs fn, and commits on success or rolls back on
// error or panic. The handle is released on every exit path; callers that
// retry on serialization conflicts do so by calling this again.
func (db *DB) WithSerializable(ctx context.Context, fn TxFunc) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin serializable transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(tx)
	return err
}

// IsSerializationFailure reports whether err is a storage-level
// serialization conflict (SQLSTATE 40001), the only condition callers are
// expected to retry.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailureCode
}
