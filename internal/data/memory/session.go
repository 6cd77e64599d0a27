package memory

import (
	"context"
	"sync"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"

	"github.com/google/uuid"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]entity.Session
	now      func() time.Time
}

// NewSessionRepository returns a process-local session store. Sessions do
// not survive a restart.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]entity.Session),
		now:      time.Now,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.Token] = *session
	return nil
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok || session.Expired(r.now()) {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

func (r *sessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *sessionRepository) CleanExpiredSessions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
		}
	}
	return nil
}
