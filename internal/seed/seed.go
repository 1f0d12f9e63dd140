package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"banktech/internal/auth"
	"banktech/internal/models"
	"banktech/internal/services"
	"banktech/internal/store"
)

const AdminUsername = "admin"

type UserCreator interface {
	EnsureExists(ctx context.Context, input store.NewUser) (bool, error)
}

type AccountOpener interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
}

// DemoAccounts are the accounts a fresh demo install starts with.
var DemoAccounts = []services.CreateAccountRequest{
	{Number: "1001", HolderName: "João Silva", Email: "joao@email.com", TaxID: "123.456.789-00", InitialBalance: 150000, AccountType: models.AccountChecking},
	{Number: "1002", HolderName: "Maria Santos", Email: "maria@email.com", TaxID: "987.654.321-00", InitialBalance: 250000, AccountType: models.AccountSavings},
	{Number: "1003", HolderName: "Pedro Oliveira", Email: "pedro@email.com", TaxID: "456.123.789-00", InitialBalance: 50000, AccountType: models.AccountChecking},
}

// EnsureAdmin creates the manager login unless it already exists. An existing
// admin keeps its password.
func EnsureAdmin(ctx context.Context, users UserCreator, password string, logger *zap.Logger) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("EnsureAdmin: %w", err)
	}
	created, err := users.EnsureExists(ctx, store.NewUser{
		Username:     AdminUsername,
		PasswordHash: hash,
		DisplayName:  "Administrator",
		Role:         models.RoleManager,
	})
	if err != nil {
		return fmt.Errorf("EnsureAdmin: %w", err)
	}
	if created {
		logger.Info("admin user created", zap.String("username", AdminUsername))
	}
	return nil
}

// Demo opens the demo accounts through the regular account opening path so
// their balances are backed by initial deposit entries. Existing accounts are left alone.
func Demo(ctx context.Context, opener AccountOpener, logger *zap.Logger) (int, error) {
	opened := 0
	for _, req := range DemoAccounts {
		_, err := opener.CreateAccount(ctx, req)
		switch {
		case err == nil:
			opened++
			logger.Info("demo account opened", zap.String("number", req.Number))
		case errors.Is(err, services.ErrDuplicateKey):
			logger.Debug("demo account already present", zap.String("number", req.Number))
		default:
			return opened, fmt.Errorf("seed.Demo %s: %w", req.Number, err)
		}
	}
	return opened, nil
}
