// Package memory is an in-process message store used for local runs and tests.
// It enforces the same uniqueness and read-set guarantees as the Postgres store.
package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
)

type OutboxEvent struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

type Store struct {
	// txMu serializes WithTx bodies, standing in for row locks.
	txMu sync.Mutex

	mu         sync.RWMutex
	messages   map[string]*domain.Message
	sessions   map[string]string
	moderators map[string]*domain.Moderator
	outbox     []OutboxEvent
}

var _ repository.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		messages:   make(map[string]*domain.Message),
		sessions:   make(map[string]string),
		moderators: make(map[string]*domain.Moderator),
	}
}

// WithTx runs fn with a nil *sql.Tx while holding the store transaction lock.
// Writes are not rolled back when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (s *Store) PingContext(context.Context) error { return nil }

func (s *Store) InsertMessage(_ context.Context, _ *sql.Tx, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.sessions[msg.SessionID]; taken {
		return domain.ErrDuplicateSubmission
	}
	s.messages[msg.ID] = msg.Clone()
	s.sessions[msg.SessionID] = msg.ID
	return nil
}

func (s *Store) SessionHasMessage(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *Store) FindMessages(_ context.Context, filter domain.MessageFilter) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Message{}
	for _, m := range s.messages {
		if filter.Matches(m) {
			out = append(out, m.Clone())
		}
	}
	sortOldestFirst(out)
	return out, nil
}

func (s *Store) MarkRead(_ context.Context, id, sessionID string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	m.MarkReadBy(sessionID)
	return m.Clone(), nil
}

func (s *Store) GetMessageForUpdate(_ context.Context, _ *sql.Tx, id string) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return m.Clone(), nil
}

func (s *Store) UpdateModeration(_ context.Context, _ *sql.Tx, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[msg.ID]
	if !ok {
		return domain.ErrMessageNotFound
	}
	m.Status = msg.Status
	m.ModeratedBy = msg.ModeratedBy
	if msg.ModeratedAt != nil {
		t := *msg.ModeratedAt
		m.ModeratedAt = &t
	}
	return nil
}

func (s *Store) DeleteMessage(_ context.Context, _ *sql.Tx, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domain.ErrMessageNotFound
	}
	delete(s.messages, id)
	delete(s.sessions, m.SessionID)
	return nil
}

func (s *Store) ListMessages(_ context.Context, opts repository.ListOptions) ([]*domain.Message, error) {
	out, _ := s.FindMessages(context.Background(), domain.MessageFilter{Status: opts.Status})
	if opts.NewestFirst {
		slices.Reverse(out)
	}
	return out, nil
}

func (s *Store) CountMessages(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.messages)), nil
}

func (s *Store) CountModeratorsForUpdate(context.Context, *sql.Tx) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.moderators), nil
}

func (s *Store) CreateModerator(_ context.Context, _ *sql.Tx, m *domain.Moderator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.moderators[m.Username]; taken {
		return domain.ErrModeratorExists
	}
	c := *m
	s.moderators[m.Username] = &c
	return nil
}

func (s *Store) GetModeratorByUsername(_ context.Context, username string) (*domain.Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.moderators[username]
	if !ok {
		return nil, domain.ErrModeratorNotFound
	}
	c := *m
	return &c, nil
}

func (s *Store) InsertOutbox(_ context.Context, _ *sql.Tx, aggregateType, aggregateID, eventType string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, OutboxEvent{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       slices.Clone(payload),
	})
	return nil
}

// Outbox returns a copy of every event written so far.
func (s *Store) Outbox() []OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.outbox)
}

func sortOldestFirst(ms []*domain.Message) {
	slices.SortFunc(ms, func(a, b *domain.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
