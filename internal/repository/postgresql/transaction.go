package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentrihq/erp-backend-go/internal/pkg/database"
)

type txCtxKey struct{}

// WithTransaction executes fn inside a database transaction. The transaction
// is carried in the context fn receives, so repository calls made through
// that context run on the transaction and observe its uncommitted writes.
func WithTransaction(ctx context.Context, db *database.DB, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// TxManager is the transaction boundary handed to services.
type TxManager struct {
	db *database.DB
}

func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, m.db, pgx.TxOptions{}, fn)
}

// InTxSerializable runs fn under SERIALIZABLE isolation. The payroll
// generation run uses it so two concurrent runs for the same period cannot
// both pass the duplicate check for an employee; the losing transaction
// fails at commit and the caller can safely re-invoke.
func (m *TxManager) InTxSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, m.db, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

// InSavepoint runs fn in a nested transaction (SAVEPOINT) when ctx carries
// a transaction. A statement error inside fn rolls back to the savepoint
// instead of aborting the whole transaction, which is what lets a payroll
// run keep going after one employee's insert fails. Outside a transaction
// fn runs as-is.
func (m *TxManager) InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	if !ok {
		return fn(ctx)
	}

	nested, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	if err := fn(context.WithValue(ctx, txCtxKey{}, nested)); err != nil {
		if rbErr := nested.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback savepoint: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	return nil
}
