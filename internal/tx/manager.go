package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/lib/pq"
)

// Transactor runs fn inside a transaction. The memory store implements it too.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Manager struct {
	DB *sql.DB
}

const maxRetries = 5

var ErrRetryExhausted = errors.New("transaction retry exhausted")

func (m *Manager) WithTx(
	ctx context.Context,
	fn func(ctx context.Context, tx *sql.Tx) error,
) error {

	for range maxRetries {

		tx, err := m.DB.BeginTx(ctx, &sql.TxOptions{
			Isolation: sql.LevelReadCommitted,
		})
		if err != nil {
			return fmt.Errorf("%w: begin tx: %w", domain.ErrStoreUnavailable, err)
		}

		err = fn(ctx, tx)
		if err != nil {
			_ = tx.Rollback()
			if isSerializationError(err) {
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isSerializationError(err) {
				continue
			}
			return fmt.Errorf("%w: commit: %w", domain.ErrStoreUnavailable, err)
		}

		return nil
	}

	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, ErrRetryExhausted)
}

// isSerializationError matches serialization_failure and deadlock_detected.
func isSerializationError(err error) bool {
	var pgErr *pq.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
