package usecase

import (
	"context"
	"testing"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/memory"
	"store-rating/internal/data/repository"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Abcdefg1!"

type testEnv struct {
	ctx     context.Context
	repo    *repository.Repository
	service *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config := &utils.Config{
		App:     utils.AppConfig{BcryptCost: bcrypt.MinCost},
		Session: utils.SessionConfig{TTL: time.Hour},
	}
	repo := memory.NewRepository(memory.NewDB(), memory.NewSessionRepository())

	return &testEnv{
		ctx:     context.Background(),
		repo:    repo,
		service: NewService(repo, config, zap.NewNop()),
	}
}

// seedUser inserts a user directly and returns its principal.
func (e *testEnv) seedUser(t *testing.T, name string, role entity.UserRole) entity.Principal {
	t.Helper()

	hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name + " with a long enough name",
		Email:        name + "@example.com",
		Address:      "1 Test Street",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, e.repo.User.Create(e.ctx, user))

	return entity.Principal{UserID: user.ID, Role: role}
}

// seedStore inserts a store for owner with no ratings.
func (e *testEnv) seedStore(t *testing.T, name string, owner entity.Principal) uuid.UUID {
	t.Helper()

	now := time.Now()
	store := &entity.Store{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:    name + " with a long enough name",
		Email:   name + "@store.example.com",
		Address: "2 Market Street",
		OwnerID: owner.UserID,
	}
	require.NoError(t, e.repo.Store.Create(e.ctx, store))
	return store.ID
}

func (e *testEnv) store(t *testing.T, id uuid.UUID) *entity.Store {
	t.Helper()

	store, err := e.repo.Store.FindByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, store)
	return store
}

// assertNoOrphans checks that every rating references an existing store and
// user, and every store an existing owner.
func (e *testEnv) assertNoOrphans(t *testing.T) {
	t.Helper()

	stores, err := e.repo.Store.FindAll(e.ctx, entity.StoreFilter{}, -1, 0)
	require.NoError(t, err)
	for _, s := range stores {
		owner, err := e.repo.User.FindByID(e.ctx, s.OwnerID)
		require.NoError(t, err)
		require.NotNil(t, owner, "store %s has no owner", s.ID)

		ratings, err := e.repo.Rating.FindByStoreID(e.ctx, s.ID)
		require.NoError(t, err)
		for _, r := range ratings {
			u, err := e.repo.User.FindByID(e.ctx, r.UserID)
			require.NoError(t, err)
			require.NotNil(t, u, "rating %s has no author", r.ID)
		}

		stats, err := e.repo.Rating.StatsByStore(e.ctx, s.ID)
		require.NoError(t, err)
		require.Equal(t, stats.Average(), s.AvgRating, "store %s average is stale", s.ID)
	}

	total, err := e.repo.Rating.CountAll(e.ctx)
	require.NoError(t, err)

	var reachable int64
	for _, s := range stores {
		stats, err := e.repo.Rating.StatsByStore(e.ctx, s.ID)
		require.NoError(t, err)
		reachable += stats.Count
	}
	require.Equal(t, total, reachable, "ratings reference deleted stores")
}
