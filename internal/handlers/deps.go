package handlers

import (
	"context"

	"banktech/internal/models"
	"banktech/internal/reporting"
	"banktech/internal/services"
	"banktech/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, input store.NewUser) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type BankingService interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	Deposit(ctx context.Context, req services.DepositRequest) (int64, error)
	Withdraw(ctx context.Context, req services.WithdrawRequest) (int64, error)
	Transfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	GetAccount(ctx context.Context, number string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	Ledger(ctx context.Context, limit int) ([]models.LedgerEntry, error)
}

type Reporter interface {
	Statement(ctx context.Context, number string, limit int) (reporting.Statement, error)
	Summary(ctx context.Context) (reporting.Summary, error)
}
