package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"go.uber.org/zap"
)

func (s *Service) ListPending(ctx context.Context) ([]*domain.Message, error) {
	return s.repo.ListMessages(ctx, repository.ListOptions{Status: domain.StatusPending})
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Message, error) {
	return s.repo.ListMessages(ctx, repository.ListOptions{NewestFirst: true})
}

type ModerateCommand struct {
	MessageID   string
	Status      string
	ModeratorID string
}

func (s *Service) Moderate(
	ctx context.Context,
	cmd ModerateCommand,
) (*domain.Message, error) {

	status, err := domain.ParseModerationStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	var result *domain.Message
	changed := false

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		msg, err := s.repo.GetMessageForUpdate(ctx, tx, cmd.MessageID)
		if err != nil {
			return err
		}

		changed, err = msg.Moderate(status, cmd.ModeratorID, s.now().UTC())
		if err != nil {
			return err
		}
		result = msg
		if !changed {
			return nil
		}

		if err := s.repo.UpdateModeration(ctx, tx, msg); err != nil {
			return err
		}

		payload, err := json.Marshal(domain.MessageEvent{
			MessageID:   msg.ID,
			Status:      msg.Status,
			ModeratedBy: msg.ModeratedBy,
			OccurredAt:  *msg.ModeratedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal moderated event: %w", err)
		}
		return s.repo.InsertOutbox(ctx, tx, domain.AggregateMessage, msg.ID, domain.EventMessageModerated, payload)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		observability.ModerationsTotal.WithLabelValues(string(status)).Inc()
		observability.GetLogger(ctx).Info("message_moderated",
			zap.String("message_id", result.ID),
			zap.String("status", string(result.Status)),
			zap.String("moderator_id", cmd.ModeratorID),
		)
	}
	return result, nil
}

func (s *Service) DeleteMessage(ctx context.Context, id, moderatorID string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.repo.DeleteMessage(ctx, tx, id); err != nil {
			return err
		}

		payload, err := json.Marshal(domain.MessageEvent{
			MessageID:   id,
			ModeratedBy: moderatorID,
			OccurredAt:  s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal deleted event: %w", err)
		}
		return s.repo.InsertOutbox(ctx, tx, domain.AggregateMessage, id, domain.EventMessageDeleted, payload)
	})
	if err != nil {
		return err
	}

	observability.ModerationsTotal.WithLabelValues("deleted").Inc()
	s.invalidateCount(ctx)
	observability.GetLogger(ctx).Info("message_deleted",
		zap.String("message_id", id),
		zap.String("moderator_id", moderatorID),
	)
	return nil
}
