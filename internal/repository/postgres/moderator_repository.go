package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

func (r *Repository) CountModeratorsForUpdate(ctx context.Context, tx *sql.Tx) (int, error) {
	ctx, done := r.call(ctx, "count_moderators")
	defer done()

	q := r.conn(tx)
	if tx != nil {
		if _, err := q.ExecContext(ctx, `LOCK TABLE moderators IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return 0, storeErr("lock moderators", err)
		}
	}

	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM moderators`).Scan(&n); err != nil {
		return 0, storeErr("count moderators", err)
	}
	return n, nil
}

func (r *Repository) CreateModerator(ctx context.Context, tx *sql.Tx, m *domain.Moderator) error {
	ctx, done := r.call(ctx, "create_moderator")
	defer done()

	_, err := r.conn(tx).ExecContext(ctx,
		`INSERT INTO moderators (id, username, password_hash, created_at) VALUES ($1,$2,$3,$4)`,
		m.ID, m.Username, m.PasswordHash, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "moderators_username_key") {
			return domain.ErrModeratorExists
		}
		return storeErr("create moderator", err)
	}
	return nil
}

func (r *Repository) GetModeratorByUsername(ctx context.Context, username string) (*domain.Moderator, error) {
	ctx, done := r.call(ctx, "get_moderator")
	defer done()

	var m domain.Moderator
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM moderators WHERE username = $1`, username,
	).Scan(&m.ID, &m.Username, &m.PasswordHash, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrModeratorNotFound
	}
	if err != nil {
		return nil, storeErr("get moderator", err)
	}
	return &m, nil
}

func (r *Repository) InsertOutbox(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload []byte) error {
	ctx, done := r.call(ctx, "insert_outbox")
	defer done()

	_, err := r.conn(tx).ExecContext(ctx,
		`INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload) VALUES ($1, $2, $3, $4)`,
		aggregateType, aggregateID, eventType, payload,
	)
	if err != nil {
		return storeErr("insert outbox", err)
	}
	return nil
}
