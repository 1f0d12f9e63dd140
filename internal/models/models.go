package models

import "time"

type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
	AccountPayroll  AccountType = "PAYROLL"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountPayroll:
		return true
	}
	return false
}

type EntryKind string

const (
	KindInitialDeposit EntryKind = "INITIAL_DEPOSIT"
	KindDeposit        EntryKind = "DEPOSIT"
	KindWithdrawal     EntryKind = "WITHDRAWAL"
	KindTransfer       EntryKind = "TRANSFER"
)

type Role string

const (
	RoleTeller  Role = "TELLER"
	RoleManager Role = "MANAGER"
)

func (r Role) Valid() bool {
	return r == RoleTeller || r == RoleManager
}

// Account balances are held in minor units.
type Account struct {
	Number      string      `db:"number" json:"number"`
	HolderName  string      `db:"holder_name" json:"holder_name"`
	Email       *string     `db:"email" json:"email,omitempty"`
	TaxID       *string     `db:"tax_id" json:"tax_id,omitempty"`
	Balance     int64       `db:"balance" json:"balance"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	AccountType AccountType `db:"account_type" json:"account_type"`
}

type LedgerEntry struct {
	ID                 int64     `db:"id" json:"id"`
	SourceAccount      *string   `db:"source_account" json:"source_account,omitempty"`
	DestinationAccount *string   `db:"destination_account" json:"destination_account,omitempty"`
	Kind               EntryKind `db:"kind" json:"kind"`
	Amount             int64     `db:"amount" json:"amount"`
	Description        string    `db:"description" json:"description"`
	Timestamp          time.Time `db:"created_at" json:"timestamp"`
}

// Touches reports whether the entry debits or credits the given account.
func (e LedgerEntry) Touches(number string) bool {
	return (e.SourceAccount != nil && *e.SourceAccount == number) ||
		(e.DestinationAccount != nil && *e.DestinationAccount == number)
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
