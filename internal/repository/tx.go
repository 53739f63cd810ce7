// Package repository implements MySQL persistence for the application.
// Repositories hold a *sql.DB and run raw SQL.  Operations that must
// share a transaction receive it through the context: InTx opens the
// transaction and every repository method routes its statements through
// the transaction found in the context, falling back to the pool when
// none is present.
package repository

import (
	"context"
	"database/sql"
)

type txKey struct{}

// withTx returns a context carrying the transaction.
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction from ctx when present, the pool otherwise.
func q(ctx context.Context, db *sql.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// runInTx begins a transaction on db, binds it to the context and runs
// fn.  The transaction commits when fn returns nil and rolls back
// otherwise (and on panic).
func runInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
