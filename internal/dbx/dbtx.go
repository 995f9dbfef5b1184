// Package dbx runs the SQL dataset reads inside one transaction, so the four
// tables are read from the same database state.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a table reader needs. Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// WithTx runs fn inside a transaction on db. It commits when fn returns nil
// and rolls back otherwise; a panic in fn is rolled back and rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    clients, err = readClients(ctx, tx)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
