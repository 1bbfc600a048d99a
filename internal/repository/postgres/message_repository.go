package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/lib/pq"
)

const messageColumns = `id, content, author, session_id, status, bottle_style, font, sketch,
	read_by, ip_address, location_city, location_country, moderated_by, moderated_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(s rowScanner) (*domain.Message, error) {
	var (
		m           domain.Message
		readBy      pq.StringArray
		city        sql.NullString
		country     sql.NullString
		moderatedBy sql.NullString
		moderatedAt sql.NullTime
	)

	err := s.Scan(
		&m.ID, &m.Content, &m.Author, &m.SessionID, &m.Status,
		&m.Presentation.BottleStyle, &m.Presentation.Font, &m.Presentation.Sketch,
		&readBy, &m.IPAddress, &city, &country, &moderatedBy, &moderatedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.ReadBy = []string(readBy)
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	if city.Valid || country.Valid {
		m.Location = &domain.Location{City: city.String, Country: country.String}
	}
	m.ModeratedBy = moderatedBy.String
	if moderatedAt.Valid {
		t := moderatedAt.Time
		m.ModeratedAt = &t
	}
	return &m, nil
}

func (r *Repository) InsertMessage(ctx context.Context, tx *sql.Tx, msg *domain.Message) error {
	ctx, done := r.call(ctx, "insert_message")
	defer done()

	var city, country sql.NullString
	if msg.Location != nil {
		city = sql.NullString{String: msg.Location.City, Valid: msg.Location.City != ""}
		country = sql.NullString{String: msg.Location.Country, Valid: msg.Location.Country != ""}
	}

	_, err := r.conn(tx).ExecContext(ctx, `
		INSERT INTO messages (
			id, content, author, session_id, status, bottle_style, font, sketch,
			read_by, ip_address, location_city, location_country, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		msg.ID, msg.Content, msg.Author, msg.SessionID, msg.Status,
		msg.Presentation.BottleStyle, msg.Presentation.Font, msg.Presentation.Sketch,
		pq.Array(msg.ReadBy), msg.IPAddress, city, country, msg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "messages_session_id_key") {
			return domain.ErrDuplicateSubmission
		}
		return storeErr("insert message", err)
	}
	return nil
}

func (r *Repository) SessionHasMessage(ctx context.Context, sessionID string) (bool, error) {
	ctx, done := r.call(ctx, "session_has_message")
	defer done()

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE session_id = $1)`, sessionID,
	).Scan(&exists)
	if err != nil {
		return false, storeErr("session lookup", err)
	}
	return exists, nil
}

// buildFilter renders f as a WHERE clause. Placeholders are numbered from 1.
func buildFilter(f domain.MessageFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(string(f.Status)))
	}
	if len(f.ExcludeIDs) > 0 {
		conds = append(conds, "NOT (id = ANY("+arg(pq.Array(f.ExcludeIDs))+"))")
	}

	switch f.Owner {
	case domain.OwnedByOthers:
		conds = append(conds, "session_id <> "+arg(f.SessionID))
	case domain.OwnedBySession:
		conds = append(conds, "session_id = "+arg(f.SessionID))
	}

	switch f.Read {
	case domain.ReadByNobody:
		conds = append(conds, "cardinality(read_by) = 0")
	case domain.UnreadBySession:
		conds = append(conds, "NOT ("+arg(f.SessionID)+" = ANY(read_by))")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repository) FindMessages(ctx context.Context, filter domain.MessageFilter) ([]*domain.Message, error) {
	ctx, done := r.call(ctx, "find_messages")
	defer done()

	where, args := buildFilter(filter)
	return r.queryMessages(ctx, "SELECT "+messageColumns+" FROM messages"+where+" ORDER BY created_at, id", args...)
}

func (r *Repository) queryMessages(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query messages", err)
	}
	defer rows.Close()

	out := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, storeErr("scan message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate messages", err)
	}
	return out, nil
}

// MarkRead appends sessionID under the row lock taken by UPDATE, so concurrent
// readers are all recorded exactly once.
func (r *Repository) MarkRead(ctx context.Context, id, sessionID string) (*domain.Message, error) {
	ctx, done := r.call(ctx, "mark_read")
	defer done()

	row := r.db.QueryRowContext(ctx, `
		UPDATE messages
		SET read_by = CASE
			WHEN $2 = ANY(read_by) THEN read_by
			ELSE array_append(read_by, $2)
		END
		WHERE id = $1
		RETURNING `+messageColumns,
		id, sessionID,
	)

	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, storeErr("mark read", err)
	}
	return m, nil
}

func (r *Repository) GetMessageForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Message, error) {
	ctx, done := r.call(ctx, "get_message_for_update")
	defer done()

	row := r.conn(tx).QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1 FOR UPDATE`, id)

	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, storeErr("get message", err)
	}
	return m, nil
}

func (r *Repository) UpdateModeration(ctx context.Context, tx *sql.Tx, msg *domain.Message) error {
	ctx, done := r.call(ctx, "update_moderation")
	defer done()

	res, err := r.conn(tx).ExecContext(ctx,
		`UPDATE messages SET status = $2, moderated_by = $3, moderated_at = $4 WHERE id = $1`,
		msg.ID, msg.Status, msg.ModeratedBy, msg.ModeratedAt,
	)
	if err != nil {
		return storeErr("update moderation", err)
	}
	return affectedOne(res)
}

func (r *Repository) DeleteMessage(ctx context.Context, tx *sql.Tx, id string) error {
	ctx, done := r.call(ctx, "delete_message")
	defer done()

	res, err := r.conn(tx).ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete message", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, opts repository.ListOptions) ([]*domain.Message, error) {
	ctx, done := r.call(ctx, "list_messages")
	defer done()

	order := " ORDER BY created_at ASC, id ASC"
	if opts.NewestFirst {
		order = " ORDER BY created_at DESC, id DESC"
	}

	where, args := buildFilter(domain.MessageFilter{Status: opts.Status})
	return r.queryMessages(ctx, "SELECT "+messageColumns+" FROM messages"+where+order, args...)
}

func (r *Repository) CountMessages(ctx context.Context) (int64, error) {
	ctx, done := r.call(ctx, "count_messages")
	defer done()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, storeErr("count messages", err)
	}
	return n, nil
}
