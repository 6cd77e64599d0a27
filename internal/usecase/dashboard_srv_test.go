package usecase

import (
	"testing"

	"store-rating/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Admin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", entity.RoleAdmin)
	owner := env.seedUser(t, "owner", entity.RoleStoreOwner)
	alice := env.seedUser(t, "alice", entity.RoleUser)
	storeID := env.seedStore(t, "alpha", owner)
	env.seedStore(t, "beta", owner)

	_, err := env.service.Rating.AddRating(env.ctx, alice, rate(storeID, 3))
	require.NoError(t, err)

	resp, err := env.service.Dashboard.Admin(env.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalUsers)
	assert.Equal(t, int64(2), resp.TotalStores)
	assert.Equal(t, int64(1), resp.TotalRatings)

	_, err = env.service.Dashboard.Admin(env.ctx, owner)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDashboardService_Owner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", entity.RoleStoreOwner)
	rival := env.seedUser(t, "rival", entity.RoleStoreOwner)
	alice := env.seedUser(t, "alice", entity.RoleUser)
	bob := env.seedUser(t, "bob", entity.RoleUser)

	alpha := env.seedStore(t, "alpha", owner)
	beta := env.seedStore(t, "beta", owner)
	rivalStore := env.seedStore(t, "rivalry", rival)

	_, err := env.service.Rating.AddRating(env.ctx, alice, rate(alpha, 4))
	require.NoError(t, err)
	_, err = env.service.Rating.AddRating(env.ctx, bob, rate(alpha, 5))
	require.NoError(t, err)
	_, err = env.service.Rating.AddRating(env.ctx, alice, rate(beta, 2))
	require.NoError(t, err)
	_, err = env.service.Rating.AddRating(env.ctx, bob, rate(rivalStore, 1))
	require.NoError(t, err)

	resp, err := env.service.Dashboard.Owner(env.ctx, owner)
	require.NoError(t, err)
	assert.Len(t, resp.Stores, 2)
	assert.Len(t, resp.Raters, 3)
	assert.Equal(t, 2, resp.TotalRaters)
	// (4.5 + 2.0) / 2 = 3.25
	assert.Equal(t, 3.3, resp.AverageRating)

	empty, err := env.service.Dashboard.Owner(env.ctx, env.seedUser(t, "fresh", entity.RoleStoreOwner))
	require.NoError(t, err)
	assert.Empty(t, empty.Stores)
	assert.Empty(t, empty.Raters)
	assert.Zero(t, empty.AverageRating)

	_, err = env.service.Dashboard.Owner(env.ctx, alice)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMeanOfAverages(t *testing.T) {
	stores := func(avgs ...float64) []*entity.Store {
		out := make([]*entity.Store, 0, len(avgs))
		for _, a := range avgs {
			out = append(out, &entity.Store{AvgRating: a})
		}
		return out
	}

	assert.Equal(t, 0.0, meanOfAverages(nil))
	assert.Equal(t, 4.5, meanOfAverages(stores(4.5)))
	assert.Equal(t, 2.3, meanOfAverages(stores(4.5, 0)))
	assert.Equal(t, 3.3, meanOfAverages(stores(4.5, 2)))
	assert.Equal(t, 3.1, meanOfAverages(stores(3.1, 3.1, 3.2)))
}
