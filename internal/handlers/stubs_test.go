package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"banktech/internal/auth"
	"banktech/internal/config"
	"banktech/internal/models"
	"banktech/internal/reporting"
	"banktech/internal/services"
	"banktech/internal/store"
	"banktech/internal/websocket"
)

const testSecret = "test-secret-123"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      testSecret,
		TokenTTL:       time.Hour,
		AllowedOrigins: "*",
		Currency:       "AOA",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

type stubUserStore struct {
	createFn        func(ctx context.Context, input store.NewUser) (models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (models.User, error)
	getByIDFn       func(ctx context.Context, id int64) (models.User, error)
	listFn          func(ctx context.Context) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, input store.NewUser) (models.User, error) {
	if s.createFn == nil {
		return models.User{}, nil
	}
	return s.createFn(ctx, input)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return []models.User{}, nil
	}
	return s.listFn(ctx)
}

type stubService struct {
	createAccountFn func(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	depositFn       func(ctx context.Context, req services.DepositRequest) (int64, error)
	withdrawFn      func(ctx context.Context, req services.WithdrawRequest) (int64, error)
	transferFn      func(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	getAccountFn    func(ctx context.Context, number string) (models.Account, error)
	listAccountsFn  func(ctx context.Context) ([]models.Account, error)
	ledgerFn        func(ctx context.Context, limit int) ([]models.LedgerEntry, error)
}

func (s stubService) CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error) {
	return s.createAccountFn(ctx, req)
}

func (s stubService) Deposit(ctx context.Context, req services.DepositRequest) (int64, error) {
	return s.depositFn(ctx, req)
}

func (s stubService) Withdraw(ctx context.Context, req services.WithdrawRequest) (int64, error) {
	return s.withdrawFn(ctx, req)
}

func (s stubService) Transfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error) {
	return s.transferFn(ctx, req)
}

func (s stubService) GetAccount(ctx context.Context, number string) (models.Account, error) {
	if s.getAccountFn == nil {
		return models.Account{}, &services.AccountNotFoundError{Number: number}
	}
	return s.getAccountFn(ctx, number)
}

func (s stubService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.listAccountsFn(ctx)
}

func (s stubService) Ledger(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	return s.ledgerFn(ctx, limit)
}

type stubReporter struct {
	statementFn func(ctx context.Context, number string, limit int) (reporting.Statement, error)
	summaryFn   func(ctx context.Context) (reporting.Summary, error)
}

func (s stubReporter) Statement(ctx context.Context, number string, limit int) (reporting.Statement, error) {
	return s.statementFn(ctx, number, limit)
}

func (s stubReporter) Summary(ctx context.Context) (reporting.Summary, error) {
	return s.summaryFn(ctx)
}

func newTestRouter(cfg config.Config, users UserStore, service BankingService, reporter Reporter) http.Handler {
	return New(cfg, zap.NewNop(), users, service, reporter, websocket.NewHub()).Routes()
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: 1, Username: "op", Role: role}, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func strPtr(s string) *string { return &s }
