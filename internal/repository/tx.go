package repository

import (
	"context"
	"database/sql"
	"log"
)

// TxRunner executes a function within a database transaction.  The
// booking service depends on this small interface instead of *sql.DB so
// that tests can substitute an in-memory implementation.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// SQLTxRunner runs transactions against a live database.  A failed
// rollback after an aborted mutation means the database may hold a
// booking row whose seats were never adjusted (or vice versa), so it is
// logged as an inconsistency rather than an ordinary request failure.
type SQLTxRunner struct {
	DB *sql.DB
}

// NewSQLTxRunner returns a TxRunner bound to the given database handle.
func NewSQLTxRunner(db *sql.DB) *SQLTxRunner { return &SQLTxRunner{DB: db} }

// RunTx begins a transaction, invokes fn and commits when fn returns
// nil.  Any error from fn aborts the transaction and is returned
// unchanged so sentinel errors survive for the caller.
func (r *SQLTxRunner) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("FATAL INCONSISTENCY: rollback failed after aborted mutation: %v (original error: %v)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}
