package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"store-rating/internal/data/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPrefix = "test:"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func testSession(userID uuid.UUID, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		Token:  uuid.New(),
		UserID: userID,
		User: entity.Profile{
			ID:    userID,
			Name:  "Session Holder With Long Name",
			Email: "holder@example.com",
			Role:  entity.RoleUser,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestRedisSession_CreateAndFind(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, testPrefix, zap.NewNop())
	ctx := context.Background()

	session := testSession(uuid.New(), time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	assert.True(t, mr.Exists(testPrefix+"session:"+session.Token.String()))
	members, err := mr.SMembers(testPrefix + "user_sessions:" + session.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{session.Token.String()}, members)

	ttl := mr.TTL(testPrefix + "session:" + session.Token.String())
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

	found, err := repo.FindValidSession(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, session.User, found.User)
	assert.Equal(t, session.UserID, found.UserID)
}

func TestRedisSession_CreateExpired(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, testPrefix, zap.NewNop())

	err := repo.Create(context.Background(), testSession(uuid.New(), -time.Second))
	assert.Error(t, err)
}

func TestRedisSession_Find_Misses(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, testPrefix, zap.NewNop())
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		found, err := repo.FindValidSession(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("key expired", func(t *testing.T) {
		session := testSession(uuid.New(), time.Minute)
		require.NoError(t, repo.Create(ctx, session))

		mr.FastForward(2 * time.Minute)

		found, err := repo.FindValidSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		token := uuid.New()
		require.NoError(t, mr.Set(testPrefix+"session:"+token.String(), "{not json"))

		found, err := repo.FindValidSession(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRedisSession_Revoke(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, testPrefix, zap.NewNop())
	ctx := context.Background()

	userID := uuid.New()
	first := testSession(userID, time.Hour)
	second := testSession(userID, time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.Revoke(ctx, first.Token))
	assert.False(t, mr.Exists(testPrefix+"session:"+first.Token.String()))

	members, err := mr.SMembers(testPrefix + "user_sessions:" + userID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{second.Token.String()}, members)

	// Idempotent
	require.NoError(t, repo.Revoke(ctx, first.Token))
	require.NoError(t, repo.Revoke(ctx, uuid.New()))

	found, err := repo.FindValidSession(ctx, second.Token)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestRedisSession_RevokeAllUserSessions(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, testPrefix, zap.NewNop())
	ctx := context.Background()

	userID := uuid.New()
	sessions := []*entity.Session{testSession(userID, time.Hour), testSession(userID, time.Hour)}
	for _, s := range sessions {
		require.NoError(t, repo.Create(ctx, s))
	}
	bystander := testSession(uuid.New(), time.Hour)
	require.NoError(t, repo.Create(ctx, bystander))

	require.NoError(t, repo.RevokeAllUserSessions(ctx, userID))

	for _, s := range sessions {
		found, err := repo.FindValidSession(ctx, s.Token)
		require.NoError(t, err)
		assert.Nil(t, found)
	}
	assert.False(t, mr.Exists(testPrefix+"user_sessions:"+userID.String()))

	found, err := repo.FindValidSession(ctx, bystander.Token)
	require.NoError(t, err)
	assert.NotNil(t, found)

	// No sessions at all is fine
	assert.NoError(t, repo.RevokeAllUserSessions(ctx, uuid.New()))
	assert.NoError(t, repo.CleanExpiredSessions(ctx))
}

func TestRedisSession_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	t.Run("find", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		repo := NewRedisSessionRepository(rdb, testPrefix, zap.NewNop())

		token := uuid.New()
		mock.ExpectGet(testPrefix + "session:" + token.String()).SetErr(boom)

		_, err := repo.FindValidSession(ctx, token)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revoke all", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		repo := NewRedisSessionRepository(rdb, testPrefix, zap.NewNop())

		userID := uuid.New()
		mock.ExpectSMembers(testPrefix + "user_sessions:" + userID.String()).SetErr(boom)

		err := repo.RevokeAllUserSessions(ctx, userID)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revoke all delete", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		repo := NewRedisSessionRepository(rdb, testPrefix, zap.NewNop())

		userID := uuid.New()
		token := uuid.NewString()
		userKey := testPrefix + "user_sessions:" + userID.String()
		mock.ExpectSMembers(userKey).SetVal([]string{token})
		mock.ExpectDel(testPrefix+"session:"+token, userKey).SetErr(boom)

		err := repo.RevokeAllUserSessions(ctx, userID)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
