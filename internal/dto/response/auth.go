package response

import (
	"time"

	"store-rating/internal/data/entity"
)

type SessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      entity.Profile `json:"user"`
}

func SessionToResponse(session *entity.Session) SessionResponse {
	return SessionResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      session.User,
	}
}
