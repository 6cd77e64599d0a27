package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RunInTx executes fn inside a transaction. The transaction is committed
// when fn returns nil and rolled back on error or panic.
func RunInTx(ctx context.Context, db PgxIface, log *zap.Logger, fn func(q Querier) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error("Failed to roll back transaction after panic",
					zap.Error(rbErr), zap.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Error("Failed to roll back transaction",
				zap.Error(rbErr), zap.NamedError("original_error", err))
			return fmt.Errorf("rollback transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
