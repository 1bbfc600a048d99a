package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"go.uber.org/zap"
)

const (
	TopicMessageSubmitted = "bottle.message.submitted"
	TopicMessageModerated = "bottle.message.moderated"
	TopicMessageDeleted   = "bottle.message.deleted"
)

// Publisher sends events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// TopicFor maps an outbox event type to its Kafka topic.
func TopicFor(eventType string) (string, bool) {
	switch eventType {
	case domain.EventMessageSubmitted:
		return TopicMessageSubmitted, true
	case domain.EventMessageModerated:
		return TopicMessageModerated, true
	case domain.EventMessageDeleted:
		return TopicMessageDeleted, true
	default:
		return "", false
	}
}

// Worker polls unprocessed outbox rows and publishes them. Rows are claimed
// with FOR UPDATE SKIP LOCKED so several instances can run side by side.
type Worker struct {
	DB        *sql.DB
	Publisher Publisher
	BatchSize int
	PollDelay time.Duration
	log       *zap.Logger
}

func NewWorker(db *sql.DB, p Publisher, batchSize int, delay time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		DB:        db,
		Publisher: p,
		BatchSize: batchSize,
		PollDelay: delay,
		log:       log,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info("outbox_worker_started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("outbox_worker_stopping")
			return
		default:
		}

		n, err := w.processBatch(ctx)
		if err != nil && ctx.Err() == nil {
			w.log.Error("outbox_batch_failed", zap.Error(err))
			sleep(ctx, time.Second)
			continue
		}
		if n == 0 {
			sleep(ctx, w.PollDelay)
		}
	}
}

type event struct {
	id          int64
	aggregateID string
	eventType   string
	payload     []byte
}

func (w *Worker) processBatch(ctx context.Context) (int, error) {
	tx, err := w.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, w.BatchSize)
	if err != nil {
		return 0, err
	}

	var events []event
	for rows.Next() {
		var e event
		if err := rows.Scan(&e.id, &e.aggregateID, &e.eventType, &e.payload); err != nil {
			rows.Close()
			return 0, err
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	for _, e := range events {
		topic, ok := TopicFor(e.eventType)
		if !ok {
			w.log.Warn("outbox_unknown_event_type",
				zap.String("event_type", e.eventType),
				zap.Int64("outbox_id", e.id),
			)
		} else if err := w.Publisher.Publish(ctx, topic, []byte(e.aggregateID), e.payload); err != nil {
			return 0, err
		} else {
			observability.OutboxPublishedTotal.WithLabelValues(e.eventType).Inc()
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, e.id,
		); err != nil {
			return 0, err
		}
	}

	return len(events), tx.Commit()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
