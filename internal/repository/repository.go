package repository

import (
	"context"
	"database/sql"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

// ListOptions controls the admin listings. An empty Status lists everything.
type ListOptions struct {
	Status      domain.Status
	NewestFirst bool
}

// MessageRepository persists messages. Methods taking a *sql.Tx run inside it
// when tx is non-nil and directly against the store otherwise.
//
// Implementations report ErrDuplicateSubmission when a session already owns a
// message, ErrMessageNotFound for unknown ids, and wrap infrastructure
// failures in ErrStoreUnavailable.
type MessageRepository interface {
	InsertMessage(ctx context.Context, tx *sql.Tx, msg *domain.Message) error
	SessionHasMessage(ctx context.Context, sessionID string) (bool, error)

	// FindMessages returns matches ordered oldest first.
	FindMessages(ctx context.Context, filter domain.MessageFilter) ([]*domain.Message, error)

	// MarkRead adds sessionID to the read set as a single atomic step and
	// returns the updated message.
	MarkRead(ctx context.Context, id, sessionID string) (*domain.Message, error)

	GetMessageForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Message, error)
	UpdateModeration(ctx context.Context, tx *sql.Tx, msg *domain.Message) error
	DeleteMessage(ctx context.Context, tx *sql.Tx, id string) error

	ListMessages(ctx context.Context, opts ListOptions) ([]*domain.Message, error)
	CountMessages(ctx context.Context) (int64, error)
}

type ModeratorRepository interface {
	// CountModeratorsForUpdate blocks concurrent setups until tx ends.
	CountModeratorsForUpdate(ctx context.Context, tx *sql.Tx) (int, error)
	CreateModerator(ctx context.Context, tx *sql.Tx, m *domain.Moderator) error
	GetModeratorByUsername(ctx context.Context, username string) (*domain.Moderator, error)
}

type OutboxRepository interface {
	InsertOutbox(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload []byte) error
}

type Repository interface {
	MessageRepository
	ModeratorRepository
	OutboxRepository
}
