package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session carries the serialized current-user record. It is restored as-is,
// without re-reading the user table.
type Session struct {
	Token     uuid.UUID `json:"token" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	User      Profile   `json:"user" db:"user_data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) Principal() Principal {
	return Principal{UserID: s.User.ID, Role: s.User.Role}
}
