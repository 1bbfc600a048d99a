package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Repository struct {
	db      *sql.DB
	timeout time.Duration
}

var _ repository.Repository = (*Repository)(nil)

func NewRepository(db *sql.DB, timeout time.Duration) *Repository {
	return &Repository{db: db, timeout: timeout}
}

// Migrate creates the tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository) conn(tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.db
}

// call bounds a single store call by the configured timeout and records its
// duration under op.
func (r *Repository) call(ctx context.Context, op string) (context.Context, func()) {
	start := time.Now()
	cancel := func() {}
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	return ctx, func() {
		cancel()
		observability.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.Constraint == constraint
}

// storeErr marks driver, network and deadline failures as ErrStoreUnavailable.
// The driver error stays in the chain so tx.Manager can spot retryable codes.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
