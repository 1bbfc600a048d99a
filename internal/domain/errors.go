package domain

import "errors"

var (
	ErrValidation          = errors.New("invalid message")
	ErrDuplicateSubmission = errors.New("session already submitted a message")
	ErrNoMessagesAvailable = errors.New("no messages available")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrMessageNotFound     = errors.New("message not found")
	ErrStoreUnavailable    = errors.New("message store unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrModeratorExists     = errors.New("moderator already exists")
	ErrModeratorNotFound   = errors.New("moderator not found")
)
