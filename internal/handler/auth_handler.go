package handler

import (
	"net/http"

	"github.com/SARVESHVARADKAR123/bottle/internal/moderator"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
)

type AuthHandler struct {
	svc *moderator.Service
}

func NewAuthHandler(svc *moderator.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type setupRequest struct {
	SetupKey string `json:"setupKey"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := h.svc.Setup(r.Context(), req.SetupKey, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, map[string]string{
		"message":  "moderator created",
		"id":       m.ID,
		"username": m.Username,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
