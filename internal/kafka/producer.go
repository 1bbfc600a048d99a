package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer wraps a kafka.Writer for publishing outbox events.
type Producer struct {
	w *kafka.Writer
}

// NewProducer creates a writer that routes by the topic set on each message
// and keys by message id, so events for one bottle stay ordered.
func NewProducer(brokers []string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

// Publish sends a single message to the given topic.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error { return p.w.Close() }
