package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SARVESHVARADKAR123/bottle/internal/application"
	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/middleware"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
)

const maxBodyBytes = 16 << 10

type MessageHandler struct {
	svc *application.Service
}

func NewMessageHandler(svc *application.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type submitRequest struct {
	SessionID   string `json:"sessionId"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	BottleStyle int    `json:"bottleStyle"`
	Font        int    `json:"font"`
	Sketch      int    `json:"sketch"`
}

func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg, err := h.svc.SubmitMessage(r.Context(), application.SubmitMessageCommand{
		SessionID:   req.SessionID,
		Content:     req.Content,
		Author:      req.Author,
		BottleStyle: req.BottleStyle,
		Font:        req.Font,
		Sketch:      req.Sketch,
		IPAddress:   middleware.ClientIP(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, toMessageResponse(msg, req.SessionID))
}

func (h *MessageHandler) Random(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	force, err := parseOptionalBool(q.Get("forceOwnMessage"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sessionID := idParam(q.Get("sessionId"))
	msg, err := h.svc.SelectNext(r.Context(), application.SelectNextQuery{
		SessionID:         sessionID,
		ExcludeMessageID:  idParam(q.Get("excludeMessageId")),
		PreviousMessageID: idParam(q.Get("previousMessageId")),
		ForceOwnMessage:   force,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, toMessageResponse(msg, sessionID))
}

// idParam treats the literal "null" some clients send as absent.
func idParam(v string) string {
	if v == "null" || v == "undefined" {
		return ""
	}
	return v
}

func parseOptionalBool(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: forceOwnMessage must be true or false", domain.ErrValidation)
	}
	return &b, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	return nil
}
