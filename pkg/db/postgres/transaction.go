package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotelbooking/pkg/db"
	apperrors "hotelbooking/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

type txKey struct{}

type postgresTransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(database *sqlx.DB) db.TransactionManager {
	return &postgresTransactionManager{
		db: database,
	}
}

// ExecuteTransaction runs fn in a read-committed transaction. A ctx that
// already carries a transaction is reused, so nested calls join the outer one.
func (m *postgresTransactionManager) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("transaction failed: %w (rollback: %v)", err, rbErr)
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Executor returns the transaction stored in ctx, or database when there is none.
func Executor(ctx context.Context, database *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return database
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
