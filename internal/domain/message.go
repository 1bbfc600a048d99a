package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// AnonymousAuthor is stored when a submission carries no author.
const AnonymousAuthor = "Anonymous"

// ParseModerationStatus accepts only the statuses a moderator may assign.
func ParseModerationStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Presentation is rendered by the front-end only.
type Presentation struct {
	BottleStyle int
	Font        int
	Sketch      int
}

const (
	DefaultFont   = 1
	DefaultSketch = 0
)

func (p Presentation) validate() error {
	if p.BottleStyle < 1 || p.BottleStyle > 8 {
		return fmt.Errorf("%w: bottle style must be between 1 and 8", ErrValidation)
	}
	if p.Font < 1 || p.Font > 4 {
		return fmt.Errorf("%w: font must be between 1 and 4", ErrValidation)
	}
	if p.Sketch < 0 || p.Sketch > 5 {
		return fmt.Errorf("%w: sketch must be between 0 and 5", ErrValidation)
	}
	return nil
}

// Location is derived from the submitter IP. Never serialized to clients.
type Location struct {
	City    string
	Country string
}

// Limits bounds the user-supplied text of a submission, in characters.
type Limits struct {
	ContentMin int
	ContentMax int
	AuthorMin  int
	AuthorMax  int
}

var DefaultLimits = Limits{
	ContentMin: 10,
	ContentMax: 500,
	AuthorMin:  2,
	AuthorMax:  50,
}

// Message Invariants:
// 1. Ownership: SessionID is unique across all messages and never changes.
// 2. Read tracking: ReadBy holds each session at most once and only grows.
// 3. Moderation: Status moves pending -> approved or pending -> rejected, never back.
// 4. Privacy: IPAddress and Location stay inside the service.
type Message struct {
	ID           string
	Content      string
	Author       string
	SessionID    string
	Status       Status
	Presentation Presentation
	ReadBy       []string
	CreatedAt    time.Time
	ModeratedBy  string
	ModeratedAt  *time.Time

	IPAddress string
	Location  *Location
}

func NewMessage(
	id string,
	sessionID string,
	content string,
	author string,
	presentation Presentation,
	ipAddress string,
	limits Limits,
	now time.Time,
) (*Message, error) {

	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrValidation)
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n < limits.ContentMin || n > limits.ContentMax {
		return nil, fmt.Errorf("%w: content must be between %d and %d characters",
			ErrValidation, limits.ContentMin, limits.ContentMax)
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = AnonymousAuthor
	} else if n := utf8.RuneCountInString(author); n < limits.AuthorMin || n > limits.AuthorMax {
		return nil, fmt.Errorf("%w: author must be between %d and %d characters",
			ErrValidation, limits.AuthorMin, limits.AuthorMax)
	}

	if presentation.Font == 0 {
		presentation.Font = DefaultFont
	}
	if err := presentation.validate(); err != nil {
		return nil, err
	}

	return &Message{
		ID:           id,
		Content:      content,
		Author:       author,
		SessionID:    sessionID,
		Status:       StatusPending,
		Presentation: presentation,
		ReadBy:       []string{},
		CreatedAt:    now,
		IPAddress:    ipAddress,
	}, nil
}

func (m *Message) ReadCount() int { return len(m.ReadBy) }

func (m *Message) IsReadBy(sessionID string) bool {
	return slices.Contains(m.ReadBy, sessionID)
}

// MarkReadBy appends sessionID unless already present and reports whether it changed.
func (m *Message) MarkReadBy(sessionID string) bool {
	if m.IsReadBy(sessionID) {
		return false
	}
	m.ReadBy = append(m.ReadBy, sessionID)
	return true
}

// Moderate applies a moderator decision. Re-applying the current status is a
// no-op and reports changed == false.
func (m *Message) Moderate(status Status, moderatorID string, now time.Time) (changed bool, err error) {
	if status != StatusApproved && status != StatusRejected {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if m.Status == status {
		return false, nil
	}
	if m.Status != StatusPending {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, status)
	}

	m.Status = status
	m.ModeratedBy = moderatorID
	m.ModeratedAt = &now
	return true, nil
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (m *Message) Clone() *Message {
	c := *m
	c.ReadBy = slices.Clone(m.ReadBy)
	if c.ReadBy == nil {
		c.ReadBy = []string{}
	}
	if m.ModeratedAt != nil {
		t := *m.ModeratedAt
		c.ModeratedAt = &t
	}
	if m.Location != nil {
		l := *m.Location
		c.Location = &l
	}
	return &c
}
