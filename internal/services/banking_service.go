package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"banktech/internal/db"
	"banktech/internal/logging"
	"banktech/internal/metrics"
	"banktech/internal/models"
	"banktech/internal/money"
	"banktech/internal/store"
	"banktech/internal/websocket"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Getter, input store.NewAccount) (models.Account, error)
	GetByNumber(ctx context.Context, number string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, number string) (models.Account, error)
	SetBalance(ctx context.Context, tx store.Execer, number string, balance int64) error
	List(ctx context.Context) ([]models.Account, error)
}

type LedgerStore interface {
	Append(ctx context.Context, tx store.Getter, input store.NewEntry) (models.LedgerEntry, error)
	ForAccount(ctx context.Context, number string, limit int) ([]models.LedgerEntry, error)
	All(ctx context.Context, limit int) ([]models.LedgerEntry, error)
}

type BalanceHub interface {
	BroadcastBalance(update websocket.BalanceUpdate)
}

// BankingService owns every balance mutation. Each operation runs in a single
// serializable transaction with the touched account rows locked.
type BankingService struct {
	txRunner db.TxRunner
	accounts AccountStore
	ledger   LedgerStore
	hub      BalanceHub
	currency string
}

func NewBankingService(txRunner db.TxRunner, accounts AccountStore, ledger LedgerStore, hub BalanceHub, currency string) *BankingService {
	return &BankingService{
		txRunner: txRunner,
		accounts: accounts,
		ledger:   ledger,
		hub:      hub,
		currency: currency,
	}
}

func (s *BankingService) Currency() string {
	return s.currency
}

type CreateAccountRequest struct {
	Number         string
	HolderName     string
	Email          string
	TaxID          string
	InitialBalance int64
	AccountType    models.AccountType
	Description    string
}

type DepositRequest struct {
	AccountNumber string
	Amount        int64
	Description   string
}

type WithdrawRequest struct {
	AccountNumber string
	Amount        int64
	Description   string
}

type TransferRequest struct {
	SourceAccount      string
	DestinationAccount string
	Amount             int64
	Description        string
}

type TransferResult struct {
	EntryID            int64 `json:"entry_id"`
	SourceBalance      int64 `json:"source_balance"`
	DestinationBalance int64 `json:"destination_balance"`
}

func (s *BankingService) CreateAccount(ctx context.Context, req CreateAccountRequest) (account models.Account, err error) {
	defer func() { s.record(ctx, "create_account", err) }()

	input, err := newAccountInput(req)
	if err != nil {
		return models.Account{}, err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		created, err := s.accounts.Create(ctx, tx, input)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return ErrDuplicateKey
			}
			return fmt.Errorf("CreateAccount: %w", err)
		}
		if input.Balance > 0 {
			if _, err := s.ledger.Append(ctx, tx, store.NewEntry{
				DestinationAccount: &created.Number,
				Kind:               models.KindInitialDeposit,
				Amount:             input.Balance,
				Description:        describe(req.Description, "Initial deposit"),
			}); err != nil {
				return fmt.Errorf("CreateAccount: ledger: %w", err)
			}
		}
		account = created
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func newAccountInput(req CreateAccountRequest) (store.NewAccount, error) {
	number := strings.TrimSpace(req.Number)
	holder := strings.TrimSpace(req.HolderName)
	if number == "" {
		return store.NewAccount{}, invalidArgument("account number is required")
	}
	if holder == "" {
		return store.NewAccount{}, invalidArgument("holder name is required")
	}
	if req.InitialBalance < 0 {
		return store.NewAccount{}, invalidArgument("initial balance cannot be negative")
	}
	accountType := req.AccountType
	if accountType == "" {
		accountType = models.AccountChecking
	}
	if !accountType.Valid() {
		return store.NewAccount{}, invalidArgument("unknown account type %q", accountType)
	}
	return store.NewAccount{
		Number:      number,
		HolderName:  holder,
		Email:       optional(req.Email),
		TaxID:       optional(req.TaxID),
		Balance:     req.InitialBalance,
		AccountType: accountType,
	}, nil
}

func (s *BankingService) Deposit(ctx context.Context, req DepositRequest) (balance int64, err error) {
	defer func() { s.record(ctx, "deposit", err) }()

	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.lockAccount(ctx, tx, req.AccountNumber, "")
		if err != nil {
			return err
		}
		if req.Amount > math.MaxInt64-account.Balance {
			return ErrBalanceOverflow
		}
		next := account.Balance + req.Amount
		if err := s.accounts.SetBalance(ctx, tx, account.Number, next); err != nil {
			return fmt.Errorf("Deposit: %w", err)
		}
		if _, err := s.ledger.Append(ctx, tx, store.NewEntry{
			DestinationAccount: &account.Number,
			Kind:               models.KindDeposit,
			Amount:             req.Amount,
			Description:        describe(req.Description, "Deposit"),
		}); err != nil {
			return fmt.Errorf("Deposit: ledger: %w", err)
		}
		balance = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(req.AccountNumber, balance)
	return balance, nil
}

func (s *BankingService) Withdraw(ctx context.Context, req WithdrawRequest) (balance int64, err error) {
	defer func() { s.record(ctx, "withdraw", err) }()

	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.lockAccount(ctx, tx, req.AccountNumber, "")
		if err != nil {
			return err
		}
		if account.Balance < req.Amount {
			return ErrInsufficientFunds
		}
		next := account.Balance - req.Amount
		if err := s.accounts.SetBalance(ctx, tx, account.Number, next); err != nil {
			return fmt.Errorf("Withdraw: %w", err)
		}
		if _, err := s.ledger.Append(ctx, tx, store.NewEntry{
			SourceAccount: &account.Number,
			Kind:          models.KindWithdrawal,
			Amount:        req.Amount,
			Description:   describe(req.Description, "Withdrawal"),
		}); err != nil {
			return fmt.Errorf("Withdraw: ledger: %w", err)
		}
		balance = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publish(req.AccountNumber, balance)
	return balance, nil
}

func (s *BankingService) Transfer(ctx context.Context, req TransferRequest) (result TransferResult, err error) {
	defer func() { s.record(ctx, "transfer", err) }()

	if req.Amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if req.SourceAccount == req.DestinationAccount {
		return TransferResult{}, ErrSameAccount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		source, destination, err := s.lockTwoAccounts(ctx, tx, req.SourceAccount, req.DestinationAccount)
		if err != nil {
			return err
		}
		if source.Balance < req.Amount {
			return ErrInsufficientFunds
		}
		if req.Amount > math.MaxInt64-destination.Balance {
			return ErrBalanceOverflow
		}
		newSource := source.Balance - req.Amount
		newDestination := destination.Balance + req.Amount
		if err := s.accounts.SetBalance(ctx, tx, source.Number, newSource); err != nil {
			return fmt.Errorf("Transfer: %w", err)
		}
		if err := s.accounts.SetBalance(ctx, tx, destination.Number, newDestination); err != nil {
			return fmt.Errorf("Transfer: %w", err)
		}
		entry, err := s.ledger.Append(ctx, tx, store.NewEntry{
			SourceAccount:      &source.Number,
			DestinationAccount: &destination.Number,
			Kind:               models.KindTransfer,
			Amount:             req.Amount,
			Description:        describe(req.Description, "Transfer to "+destination.Number),
		})
		if err != nil {
			return fmt.Errorf("Transfer: ledger: %w", err)
		}
		result = TransferResult{
			EntryID:            entry.ID,
			SourceBalance:      newSource,
			DestinationBalance: newDestination,
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	s.publish(req.SourceAccount, result.SourceBalance)
	s.publish(req.DestinationAccount, result.DestinationBalance)
	return result, nil
}

func (s *BankingService) GetAccount(ctx context.Context, number string) (models.Account, error) {
	account, err := s.accounts.GetByNumber(ctx, number)
	if err != nil {
		return models.Account{}, notFound(err, number, "")
	}
	return account, nil
}

func (s *BankingService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

// Statement returns the newest entries touching the account, newest first.
func (s *BankingService) Statement(ctx context.Context, number string, limit int) ([]models.LedgerEntry, error) {
	if _, err := s.GetAccount(ctx, number); err != nil {
		return nil, err
	}
	entries, err := s.ledger.ForAccount(ctx, number, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	return entries, nil
}

func (s *BankingService) Ledger(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	entries, err := s.ledger.All(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("Ledger: %w", err)
	}
	return entries, nil
}

// ClampLimit maps a requested page size onto [1, MaxLimit], defaulting when unset.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (s *BankingService) lockAccount(ctx context.Context, tx store.Getter, number, side string) (models.Account, error) {
	account, err := s.accounts.GetForUpdate(ctx, tx, number)
	if err != nil {
		return models.Account{}, notFound(err, number, side)
	}
	return account, nil
}

// lockTwoAccounts takes both row locks in ascending number order. When both
// accounts are missing the source is reported.
func (s *BankingService) lockTwoAccounts(ctx context.Context, tx store.Getter, sourceNumber, destinationNumber string) (models.Account, models.Account, error) {
	locked := make(map[string]models.Account, 2)
	missing := make(map[string]error, 2)
	first, second := orderedNumbers(sourceNumber, destinationNumber)
	for _, number := range []string{first, second} {
		account, err := s.accounts.GetForUpdate(ctx, tx, number)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return models.Account{}, models.Account{}, fmt.Errorf("lock %s: %w", number, err)
			}
			missing[number] = err
			continue
		}
		locked[number] = account
	}
	if err, ok := missing[sourceNumber]; ok {
		return models.Account{}, models.Account{}, notFound(err, sourceNumber, SideSource)
	}
	if err, ok := missing[destinationNumber]; ok {
		return models.Account{}, models.Account{}, notFound(err, destinationNumber, SideDestination)
	}
	return locked[sourceNumber], locked[destinationNumber], nil
}

func orderedNumbers(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

func notFound(err error, number, side string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &AccountNotFoundError{Number: number, Side: side}
	}
	return fmt.Errorf("account %s: %w", number, err)
}

func (s *BankingService) publish(number string, balance int64) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastBalance(websocket.BalanceUpdate{
		AccountNumber: number,
		Balance:       money.FormatMinor(balance),
		Currency:      s.currency,
	})
}

func (s *BankingService) record(ctx context.Context, operation string, err error) {
	outcome := outcomeOf(err)
	metrics.ObserveOperation(operation, outcome)
	if outcome == "error" {
		logging.FromContext(ctx).Error("balance operation failed", zap.String("operation", operation), zap.Error(err))
		return
	}
	logging.FromContext(ctx).Debug("balance operation finished", zap.String("operation", operation), zap.String("outcome", outcome))
}

func describe(description, fallback string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return fallback
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
