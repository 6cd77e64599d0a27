package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store-rating/internal/adaptor"
	"store-rating/internal/data/memory"
	"store-rating/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail = "admin@example.com"
	password   = "Abcdefg1!"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newTestApp(t *testing.T, checks map[string]adaptor.HealthCheck) *apiClient {
	t.Helper()

	config := &utils.Config{
		App:     utils.AppConfig{BcryptCost: bcrypt.MinCost},
		Server:  utils.ServerConfig{RequestTimeout: 5 * time.Second},
		Session: utils.SessionConfig{TTL: time.Hour},
	}
	repo := memory.NewRepository(memory.NewDB(), memory.NewSessionRepository())
	app := Wiring(repo, checks, config, zap.NewNop())

	require.NoError(t, app.Service.Auth.EnsureAdmin(context.Background(), utils.AdminConfig{
		Name:     "System Administrator Account",
		Email:    adminEmail,
		Address:  "1 Admin Avenue",
		Password: password,
	}))

	return &apiClient{t: t, router: app.Router}
}

func (c *apiClient) do(method, path, token string, body any, out any) (int, envelope) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
	return rec.Code, env
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (c *apiClient) login(email string) session {
	c.t.Helper()

	var s session
	code, _ := c.do(http.MethodPost, "/sessions", "", map[string]string{"email": email, "password": password}, &s)
	require.Equal(c.t, http.StatusCreated, code)
	return s
}

func (c *apiClient) register(name, email string) session {
	c.t.Helper()

	var s session
	code, env := c.do(http.MethodPost, "/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"address":  "5 Shopper Street",
		"password": password,
	}, &s)
	require.Equal(c.t, http.StatusCreated, code, env.Message)
	return s
}

func TestAPI_RatingFlow(t *testing.T) {
	c := newTestApp(t, nil)

	// Registration
	alice := c.register("Alice Shopper The First", "alice@example.com")
	assert.Equal(t, "USER", alice.User.Role)
	bob := c.register("Bob Shopper The Second", "bob@example.com")

	code, _ := c.do(http.MethodPost, "/users", "", map[string]string{
		"name": "Alice Shopper The Again", "email": "ALICE@example.com", "address": "x", "password": password,
	}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env := c.do(http.MethodPost, "/users", "", map[string]string{
		"name": "short", "email": "not-an-email", "address": "x", "password": "abc",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")

	// Admin adds an owner and a store
	admin := c.login(adminEmail)

	var owner struct {
		ID string `json:"id"`
	}
	code, _ = c.do(http.MethodPost, "/users", admin.Token, map[string]string{
		"name": "Olivia Owner Of Stores", "email": "olivia@example.com", "address": "3 Owner Road",
		"password": password, "role": "STORE_OWNER",
	}, &owner)
	require.Equal(t, http.StatusCreated, code)

	code, _ = c.do(http.MethodPost, "/users", alice.Token, map[string]string{
		"name": "Sneaky Admin Wannabe Name", "email": "sneaky@example.com", "address": "x",
		"password": password, "role": "ADMIN",
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var store struct {
		ID        string  `json:"id"`
		AvgRating float64 `json:"avg_rating"`
	}
	code, _ = c.do(http.MethodPost, "/stores", admin.Token, map[string]string{
		"name": "Olivia's Corner Grocery", "email": "grocery@example.com", "address": "4 Market Square",
		"owner_id": owner.ID,
	}, &store)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 0.0, store.AvgRating)

	// Ratings
	type submitted struct {
		Rating struct {
			ID string `json:"id"`
		} `json:"rating"`
		Created   bool    `json:"created"`
		AvgRating float64 `json:"avg_rating"`
	}

	var first submitted
	code, _ = c.do(http.MethodPost, "/ratings", alice.Token, map[string]any{"store_id": store.ID, "value": 4}, &first)
	require.Equal(t, http.StatusCreated, code)

	var second submitted
	code, _ = c.do(http.MethodPost, "/ratings", bob.Token, map[string]any{"store_id": store.ID, "value": 5}, &second)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 4.5, second.AvgRating)

	var again submitted
	code, _ = c.do(http.MethodPost, "/ratings", alice.Token, map[string]any{"store_id": store.ID, "value": 4}, &again)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, again.Created)
	assert.Equal(t, first.Rating.ID, again.Rating.ID)

	code, _ = c.do(http.MethodPost, "/ratings", alice.Token, map[string]any{"store_id": store.ID, "value": 6}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPatch, "/ratings/"+first.Rating.ID, bob.Token, map[string]any{"value": 1}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPatch, "/ratings/00000000-0000-0000-0000-000000000000", alice.Token, map[string]any{"value": 1}, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Views
	code, _ = c.do(http.MethodGet, "/stores/"+store.ID+"/ratings/me", alice.Token, nil, nil)
	assert.Equal(t, http.StatusOK, code)

	var listing struct {
		Data []struct {
			ID       string `json:"id"`
			MyRating *struct {
				Value int `json:"value"`
			} `json:"my_rating"`
		} `json:"data"`
	}
	code, _ = c.do(http.MethodGet, "/stores?name=corner&sort=avg_rating&order=desc", bob.Token, nil, &listing)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listing.Data, 1)
	require.NotNil(t, listing.Data[0].MyRating)
	assert.Equal(t, 5, listing.Data[0].MyRating.Value)

	olivia := c.login("olivia@example.com")
	var raters []struct {
		Value int `json:"value"`
	}
	code, _ = c.do(http.MethodGet, "/stores/"+store.ID+"/raters", olivia.Token, nil, &raters)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, raters, 2)

	code, _ = c.do(http.MethodGet, "/stores/"+store.ID+"/raters", alice.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var ownerDash struct {
		AverageRating float64 `json:"average_rating"`
		TotalRaters   int     `json:"total_raters"`
	}
	code, _ = c.do(http.MethodGet, "/dashboard/owner", olivia.Token, nil, &ownerDash)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 4.5, ownerDash.AverageRating)
	assert.Equal(t, 2, ownerDash.TotalRaters)

	var adminDash struct {
		TotalUsers   int64 `json:"total_users"`
		TotalStores  int64 `json:"total_stores"`
		TotalRatings int64 `json:"total_ratings"`
	}
	code, _ = c.do(http.MethodGet, "/dashboard/admin", admin.Token, nil, &adminDash)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(4), adminDash.TotalUsers)
	assert.Equal(t, int64(1), adminDash.TotalStores)
	assert.Equal(t, int64(2), adminDash.TotalRatings)

	// Cascade through the API
	code, _ = c.do(http.MethodDelete, "/users/"+owner.ID, admin.Token, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/stores/"+store.ID, alice.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, "/sessions/current", olivia.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_Sessions(t *testing.T) {
	c := newTestApp(t, nil)
	alice := c.register("Alice Shopper The First", "alice@example.com")

	var current session
	code, _ := c.do(http.MethodGet, "/sessions/current", alice.Token, nil, &current)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, alice.User.ID, current.User.ID)

	code, _ = c.do(http.MethodPost, "/sessions", "", map[string]string{"email": "alice@example.com", "password": "Wrong#Pass1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Password change is self only
	code, _ = c.do(http.MethodPatch, "/users/"+alice.User.ID+"/password", alice.Token, map[string]string{
		"current_password": password, "new_password": "Newpass#1",
	}, nil)
	require.Equal(t, http.StatusOK, code)

	admin := c.login(adminEmail)
	code, _ = c.do(http.MethodPatch, "/users/"+alice.User.ID+"/password", admin.Token, map[string]string{
		"current_password": password, "new_password": "Newpass#2",
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodDelete, "/sessions", alice.Token, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/sessions/current", alice.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Logout is idempotent
	code, _ = c.do(http.MethodDelete, "/sessions", alice.Token, nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/sessions", "", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/sessions", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/stores", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/users", "not-a-token", map[string]string{}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_Health(t *testing.T) {
	c := newTestApp(t, map[string]adaptor.HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
	})

	var status map[string]string
	code, _ := c.do(http.MethodGet, "/health", "", nil, &status)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"postgres": "up"}, status)

	down := newTestApp(t, map[string]adaptor.HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("dial tcp: refused") },
	})

	code, env := down.do(http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "down"}, env.Errors)
}
