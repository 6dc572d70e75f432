package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"rentalhub/internal/repository"
)

const maxTxAttempts = 3

// isRetryableTxError reports whether the transaction failed with a
// serialization conflict (SQLSTATE 40001) or deadlock (40P01). These are
// transient under concurrent reserves and safe to retry from the start of
// the transaction.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// runInTxWithRetry re-runs the whole transaction on transient conflicts,
// up to maxTxAttempts. Business errors surface immediately.
func runInTxWithRetry(ctx context.Context, tx repository.TransactionManager, fn func(txCtx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = tx.RunInTx(ctx, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return err
}
