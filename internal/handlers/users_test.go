package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banktech/internal/auth"
	"banktech/internal/models"
	"banktech/internal/reporting"
	"banktech/internal/store"
)

func TestCreateUser(t *testing.T) {
	var got store.NewUser
	users := stubUserStore{
		createFn: func(_ context.Context, input store.NewUser) (models.User, error) {
			got = input
			return models.User{ID: 5, Username: input.Username, Role: input.Role}, nil
		},
	}
	router := newTestRouter(testConfig(), users, stubService{}, stubReporter{})

	rr := doRequest(router, http.MethodPost, "/users", tokenFor(t, models.RoleManager),
		`{"username":"ana.costa","password":"s3cret-pass","display_name":"Ana Costa"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, models.RoleTeller, got.Role)
	assert.True(t, auth.CheckPassword(got.PasswordHash, "s3cret-pass"))
}

func TestCreateUserErrors(t *testing.T) {
	users := stubUserStore{
		createFn: func(context.Context, store.NewUser) (models.User, error) {
			return models.User{}, store.ErrDuplicateKey
		},
	}
	router := newTestRouter(testConfig(), users, stubService{}, stubReporter{})
	manager := tokenFor(t, models.RoleManager)

	tests := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"teller forbidden", tokenFor(t, models.RoleTeller), `{"username":"ana","password":"s3cret-pass"}`, http.StatusForbidden},
		{"short password", manager, `{"username":"ana","password":"123"}`, http.StatusBadRequest},
		{"bad username", manager, `{"username":"a","password":"s3cret-pass"}`, http.StatusBadRequest},
		{"bad role", manager, `{"username":"ana","password":"s3cret-pass","role":"ROOT"}`, http.StatusBadRequest},
		{"duplicate", manager, `{"username":"admin","password":"s3cret-pass"}`, http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(router, http.MethodPost, "/users", tc.token, tc.body)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestSummaryIsManagerOnly(t *testing.T) {
	reporter := stubReporter{
		summaryFn: func(context.Context) (reporting.Summary, error) {
			return reporting.Summary{Currency: "AOA", AccountCount: 3, TotalBalance: 450000}, nil
		},
	}
	router := newTestRouter(testConfig(), stubUserStore{}, stubService{}, reporter)

	rr := doRequest(router, http.MethodGet, "/reports/summary", tokenFor(t, models.RoleTeller), "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(router, http.MethodGet, "/reports/summary", tokenFor(t, models.RoleManager), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total_balance_display":"AOA 4.500,00"`)
}

func TestWSBalancesRejectsBeforeUpgrade(t *testing.T) {
	router := newTestRouter(testConfig(), stubUserStore{}, stubService{}, stubReporter{})

	rr := doRequest(router, http.MethodGet, "/ws/balances?account=1001", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := tokenFor(t, models.RoleTeller)
	rr = doRequest(router, http.MethodGet, "/ws/balances?account=1x&token="+token, "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(router, http.MethodGet, "/ws/balances?account=9999&token="+token, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
