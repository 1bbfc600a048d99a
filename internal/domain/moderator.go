package domain

import "time"

type Moderator struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
