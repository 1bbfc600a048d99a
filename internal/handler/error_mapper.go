package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/middleware"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/transport"
	"go.uber.org/zap"
)

// MapError translates a service error into an HTTP status, a stable error code
// and a client-safe message.
func MapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status", "status must be approved or rejected"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusForbidden, "duplicate_submission", "you have already submitted a message"
	case errors.Is(err, domain.ErrNoMessagesAvailable):
		return http.StatusNotFound, "no_messages_available", "no messages available"
	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound, "not_found", "message not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", "message has already been moderated"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "invalid credentials"
	case errors.Is(err, domain.ErrModeratorExists):
		return http.StatusConflict, "moderator_exists", "a moderator already exists"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusInternalServerError, "store_unavailable", "message store unavailable, try again"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		return http.StatusInternalServerError, "internal_error", "an unexpected error occurred"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := MapError(err)

	if status >= http.StatusInternalServerError {
		observability.GetLogger(r.Context()).Error("request_failed",
			zap.Error(err),
			zap.String("code", code),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
	}

	transport.WriteError(w, status, code, msg)
}
