package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"store-rating/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisSessionRepository keeps each session as a JSON value with a TTL and
// indexes tokens per user in a set so they can be revoked together.
type redisSessionRepository struct {
	client redis.Cmdable
	prefix string
	log    *zap.Logger
}

func NewRedisSessionRepository(client redis.Cmdable, prefix string, log *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		prefix: prefix,
		log:    log.With(zap.String("repository", "session_redis")),
	}
}

func (r *redisSessionRepository) sessionKey(token uuid.UUID) string {
	return r.prefix + "session:" + token.String()
}

func (r *redisSessionRepository) userKey(userID uuid.UUID) string {
	return r.prefix + "user_sessions:" + userID.String()
}

func (r *redisSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("create session for user %s: already expired", session.UserID.String())
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	userKey := r.userKey(session.UserID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.Token), payload, ttl)
		pipe.SAdd(ctx, userKey, session.Token.String())
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("create session for user %s: %w", session.UserID.String(), err)
	}

	return nil
}

func (r *redisSessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	payload, err := r.client.Get(ctx, r.sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		r.log.Warn("Dropping undecodable session", zap.Error(err))
		return nil, nil
	}

	if session.Expired(time.Now()) {
		return nil, nil
	}

	return &session, nil
}

func (r *redisSessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	session, err := r.FindValidSession(ctx, token)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(token))
		if session != nil {
			pipe.SRem(ctx, r.userKey(session.UserID), token.String())
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (r *redisSessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	userKey := r.userKey(userID)

	tokens, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		r.log.Error("Failed to list user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("list sessions of user %s: %w", userID.String(), err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, r.prefix+"session:"+token)
	}
	keys = append(keys, userKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Error("Failed to revoke all user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("revoke sessions of user %s: %w", userID.String(), err)
	}

	r.log.Info("User sessions revoked",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(tokens)),
	)
	return nil
}

// CleanExpiredSessions is a no-op: Redis expires session keys itself.
func (r *redisSessionRepository) CleanExpiredSessions(ctx context.Context) error {
	return nil
}
