package handler

import (
	"net/http"

	"github.com/SARVESHVARADKAR123/bottle/internal/application"
	"github.com/SARVESHVARADKAR123/bottle/internal/middleware"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	svc *application.Service
}

func NewAdminHandler(svc *application.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toAdminMessageList(msgs))
}

func (h *AdminHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, toAdminMessageList(msgs))
}

type moderateRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	mod, _ := middleware.ModeratorFromContext(r.Context())
	msg, err := h.svc.Moderate(r.Context(), application.ModerateCommand{
		MessageID:   chi.URLParam(r, "id"),
		Status:      req.Status,
		ModeratorID: mod.ID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, toAdminMessageResponse(msg))
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mod, _ := middleware.ModeratorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteMessage(r.Context(), id, mod.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "message deleted", "id": id})
}
