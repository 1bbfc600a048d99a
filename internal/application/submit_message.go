package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubmitMessageCommand struct {
	SessionID   string
	Content     string
	Author      string
	BottleStyle int
	Font        int
	Sketch      int
	IPAddress   string
}

// SubmitMessage stores a new pending message for a session that has not
// submitted before.
func (s *Service) SubmitMessage(
	ctx context.Context,
	cmd SubmitMessageCommand,
) (*domain.Message, error) {

	msg, err := domain.NewMessage(
		uuid.NewString(),
		cmd.SessionID,
		cmd.Content,
		cmd.Author,
		domain.Presentation{BottleStyle: cmd.BottleStyle, Font: cmd.Font, Sketch: cmd.Sketch},
		cmd.IPAddress,
		s.limits,
		s.now().UTC(),
	)
	if err != nil {
		observability.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Fast path only. The unique constraint below decides races.
	exists, err := s.repo.SessionHasMessage(ctx, msg.SessionID)
	if err != nil {
		observability.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("check session: %w", err)
	}
	if exists {
		observability.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateSubmission
	}

	msg.Location = s.locate(ctx, msg.IPAddress)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.repo.InsertMessage(ctx, tx, msg); err != nil {
			return err
		}

		payload, err := json.Marshal(domain.MessageEvent{
			MessageID:  msg.ID,
			Status:     msg.Status,
			Author:     msg.Author,
			OccurredAt: msg.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal submitted event: %w", err)
		}
		return s.repo.InsertOutbox(ctx, tx, domain.AggregateMessage, msg.ID, domain.EventMessageSubmitted, payload)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			observability.SubmissionsTotal.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		observability.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save message: %w", err)
	}

	observability.SubmissionsTotal.WithLabelValues("accepted").Inc()
	s.invalidateCount(ctx)

	observability.GetLogger(ctx).Info("message_submitted",
		zap.String("message_id", msg.ID),
		zap.String("session_id", msg.SessionID),
	)
	return msg, nil
}

// locate is best effort; failures are logged and the message is stored without
// a location.
func (s *Service) locate(ctx context.Context, ip string) *domain.Location {
	if ip == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.geoTimeout)
	defer cancel()

	loc, err := s.locator.Locate(ctx, ip)
	if err != nil {
		s.log.Warn("geo_lookup_failed", zap.Error(err))
		return nil
	}
	return loc
}
