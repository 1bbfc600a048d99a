package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/selection"
	"go.uber.org/zap"
)

type SelectNextQuery struct {
	SessionID         string
	ExcludeMessageID  string
	PreviousMessageID string
	// ForceOwnMessage overrides the fetch cadence when set.
	ForceOwnMessage *bool
}

// SelectNext picks the next message for a session and records the read.
func (s *Service) SelectNext(
	ctx context.Context,
	q SelectNextQuery,
) (*domain.Message, error) {

	if strings.TrimSpace(q.SessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}

	req := selection.Request{
		SessionID:         q.SessionID,
		ExcludeMessageID:  q.ExcludeMessageID,
		PreviousMessageID: q.PreviousMessageID,
		ForceOwnMessage:   s.forceOwn(ctx, q),
	}

	for attempt := 1; attempt <= maxSelectAttempts; attempt++ {
		res, err := selection.Choose(ctx, s.repo, selection.Tiers(req), s.rng)
		if errors.Is(err, domain.ErrNoMessagesAvailable) {
			observability.SelectionExhaustedTotal.Inc()
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("select message: %w", err)
		}

		msg, err := s.repo.MarkRead(ctx, res.Message.ID, q.SessionID)
		if errors.Is(err, domain.ErrMessageNotFound) {
			s.log.Debug("selected_message_vanished",
				zap.String("message_id", res.Message.ID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("record read: %w", err)
		}

		observability.SelectionTierTotal.WithLabelValues(res.Tier).Inc()
		return msg, nil
	}

	observability.SelectionExhaustedTotal.Inc()
	return nil, domain.ErrNoMessagesAvailable
}

func (s *Service) forceOwn(ctx context.Context, q SelectNextQuery) bool {
	if q.ForceOwnMessage != nil {
		return *q.ForceOwnMessage
	}
	if s.counter == nil || s.ownEvery <= 0 {
		return false
	}

	n, err := s.counter.NextFetch(ctx, q.SessionID)
	if err != nil {
		s.log.Warn("fetch_counter_failed", zap.Error(err))
		return false
	}
	return n%int64(s.ownEvery) == 0
}
