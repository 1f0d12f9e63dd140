package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banktech/internal/auth"
	"banktech/internal/models"
	"banktech/internal/store"
)

func adminUsers(t *testing.T) stubUserStore {
	t.Helper()
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	admin := models.User{ID: 1, Username: "admin", PasswordHash: hash, DisplayName: "Administrator", Role: models.RoleManager}
	return stubUserStore{
		getByUsernameFn: func(_ context.Context, username string) (models.User, error) {
			if username != "admin" {
				return models.User{}, store.ErrNotFound
			}
			return admin, nil
		},
		getByIDFn: func(_ context.Context, id int64) (models.User, error) {
			if id != admin.ID {
				return models.User{}, store.ErrNotFound
			}
			return admin, nil
		},
	}
}

func TestLogin(t *testing.T) {
	router := newTestRouter(testConfig(), adminUsers(t), stubService{}, stubReporter{})

	rr := doRequest(router, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var payload struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	claims, err := auth.ParseToken(testSecret, payload.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.NotContains(t, payload.User, "password_hash")
}

func TestLoginRejects(t *testing.T) {
	router := newTestRouter(testConfig(), adminUsers(t), stubService{}, stubReporter{})
	for _, body := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"ghost","password":"admin123"}`,
	} {
		rr := doRequest(router, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
	}
}

func TestLoginStoreFailure(t *testing.T) {
	users := stubUserStore{
		getByUsernameFn: func(context.Context, string) (models.User, error) { return models.User{}, errors.New("db down") },
	}
	router := newTestRouter(testConfig(), users, stubService{}, stubReporter{})
	rr := doRequest(router, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	router := newTestRouter(cfg, adminUsers(t), stubService{}, stubReporter{})

	first := doRequest(router, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"wrong"}`)
	second := doRequest(router, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestMe(t *testing.T) {
	router := newTestRouter(testConfig(), adminUsers(t), stubService{}, stubReporter{})
	rr := doRequest(router, http.MethodGet, "/auth/me", tokenFor(t, models.RoleManager), "")
	require.Equal(t, http.StatusOK, rr.Code)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, "admin", payload["username"])
}
