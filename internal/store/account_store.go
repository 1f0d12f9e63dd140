package store

import (
	"context"
	"fmt"

	"banktech/internal/models"
)

type AccountStore struct {
	db DB
}

type NewAccount struct {
	Number      string
	HolderName  string
	Email       *string
	TaxID       *string
	Balance     int64
	AccountType models.AccountType
}

type AccountTypeTotal struct {
	AccountType models.AccountType `db:"account_type" json:"account_type"`
	Count       int64              `db:"count" json:"count"`
	Balance     int64              `db:"balance" json:"balance"`
}

const accountColumns = `number, holder_name, email, tax_id, balance, created_at, account_type`

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts a new account. A clashing number or tax id yields ErrDuplicateKey.
func (s *AccountStore) Create(ctx context.Context, tx Getter, input NewAccount) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		INSERT INTO accounts (number, holder_name, email, tax_id, balance, account_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		input.Number, input.HolderName, input.Email, input.TaxID, input.Balance, input.AccountType)
	if err != nil {
		return models.Account{}, translate(err)
	}
	return row, nil
}

func (s *AccountStore) GetByNumber(ctx context.Context, number string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE number = $1
	`, number)
	if err != nil {
		return models.Account{}, translate(err)
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, number string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE number = $1
		FOR UPDATE
	`, number)
	if err != nil {
		return models.Account{}, translate(err)
	}
	return row, nil
}

// SetBalance overwrites the stored balance. Callers must hold the row lock.
func (s *AccountStore) SetBalance(ctx context.Context, tx Execer, number string, balance int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1
		WHERE number = $2
	`, balance, number)
	if err != nil {
		return fmt.Errorf("SetBalance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SetBalance: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AccountStore) List(ctx context.Context) ([]models.Account, error) {
	rows := []models.Account{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC, number DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) TotalsByType(ctx context.Context) ([]AccountTypeTotal, error) {
	rows := []AccountTypeTotal{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT account_type, COUNT(*) AS count, COALESCE(SUM(balance), 0) AS balance
		FROM accounts
		GROUP BY account_type
		ORDER BY account_type
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
