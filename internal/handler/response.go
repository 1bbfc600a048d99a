package handler

import (
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

// messageResponse is the public view of a message. Reader and submitter
// identities stay on the server.
type messageResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Status      string    `json:"status"`
	BottleStyle int       `json:"bottleStyle"`
	Font        int       `json:"font"`
	Sketch      int       `json:"sketch"`
	ReadCount   int       `json:"readCount"`
	IsOwn       bool      `json:"isOwn"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toMessageResponse(m *domain.Message, sessionID string) messageResponse {
	return messageResponse{
		ID:          m.ID,
		Content:     m.Content,
		Author:      m.Author,
		Status:      string(m.Status),
		BottleStyle: m.Presentation.BottleStyle,
		Font:        m.Presentation.Font,
		Sketch:      m.Presentation.Sketch,
		ReadCount:   m.ReadCount(),
		IsOwn:       sessionID != "" && m.SessionID == sessionID,
		CreatedAt:   m.CreatedAt,
	}
}

// adminMessageResponse adds moderation and read data for moderators.
type adminMessageResponse struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	SessionID   string     `json:"sessionId"`
	Status      string     `json:"status"`
	BottleStyle int        `json:"bottleStyle"`
	Font        int        `json:"font"`
	Sketch      int        `json:"sketch"`
	ReadBy      []string   `json:"readBy"`
	ReadCount   int        `json:"readCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ModeratedBy string     `json:"moderatedBy,omitempty"`
	ModeratedAt *time.Time `json:"moderatedAt,omitempty"`
}

func toAdminMessageResponse(m *domain.Message) adminMessageResponse {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return adminMessageResponse{
		ID:          m.ID,
		Content:     m.Content,
		Author:      m.Author,
		SessionID:   m.SessionID,
		Status:      string(m.Status),
		BottleStyle: m.Presentation.BottleStyle,
		Font:        m.Presentation.Font,
		Sketch:      m.Presentation.Sketch,
		ReadBy:      readBy,
		ReadCount:   m.ReadCount(),
		CreatedAt:   m.CreatedAt,
		ModeratedBy: m.ModeratedBy,
		ModeratedAt: m.ModeratedAt,
	}
}

func toAdminMessageList(ms []*domain.Message) []adminMessageResponse {
	out := make([]adminMessageResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toAdminMessageResponse(m))
	}
	return out
}
