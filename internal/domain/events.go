package domain

import "time"

// Outbox event types for the message aggregate.
const (
	AggregateMessage = "message"

	EventMessageSubmitted = "MESSAGE_SUBMITTED"
	EventMessageModerated = "MESSAGE_MODERATED"
	EventMessageDeleted   = "MESSAGE_DELETED"
)

// MessageEvent is the JSON payload stored in the outbox. It never carries
// private submitter data.
type MessageEvent struct {
	MessageID   string    `json:"messageId"`
	Status      Status    `json:"status,omitempty"`
	Author      string    `json:"author,omitempty"`
	ModeratedBy string    `json:"moderatedBy,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
