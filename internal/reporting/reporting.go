package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banktech/internal/models"
	"banktech/internal/store"
)

var ErrUnrelatedEntry = errors.New("entry does not touch account")

// StatementLine is a ledger entry signed relative to one account:
// credits are positive, debits negative.
type StatementLine struct {
	EntryID      int64            `json:"entry_id"`
	Timestamp    time.Time        `json:"timestamp"`
	Kind         models.EntryKind `json:"kind"`
	Description  string           `json:"description"`
	Counterparty string           `json:"counterparty,omitempty"`
	Amount       int64            `json:"amount"`
}

type Statement struct {
	Account      models.Account  `json:"account"`
	Lines        []StatementLine `json:"lines"`
	TotalCredits int64           `json:"total_credits"`
	TotalDebits  int64           `json:"total_debits"`
}

type Summary struct {
	Currency     string                   `json:"currency"`
	AccountCount int64                    `json:"account_count"`
	TotalBalance int64                    `json:"total_balance"`
	ByType       []store.AccountTypeTotal `json:"by_type"`
	ByKind       []store.KindTotal        `json:"by_kind"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// Classify signs an entry from the point of view of number.
func Classify(entry models.LedgerEntry, number string) (StatementLine, error) {
	line := StatementLine{
		EntryID:     entry.ID,
		Timestamp:   entry.Timestamp,
		Kind:        entry.Kind,
		Description: entry.Description,
	}
	switch {
	case entry.DestinationAccount != nil && *entry.DestinationAccount == number:
		line.Amount = entry.Amount
		if entry.SourceAccount != nil {
			line.Counterparty = *entry.SourceAccount
		}
	case entry.SourceAccount != nil && *entry.SourceAccount == number:
		line.Amount = -entry.Amount
		if entry.DestinationAccount != nil {
			line.Counterparty = *entry.DestinationAccount
		}
	default:
		return StatementLine{}, fmt.Errorf("%w: entry %d, account %s", ErrUnrelatedEntry, entry.ID, number)
	}
	return line, nil
}

type StatementSource interface {
	GetAccount(ctx context.Context, number string) (models.Account, error)
	Statement(ctx context.Context, number string, limit int) ([]models.LedgerEntry, error)
}

type AccountTotals interface {
	TotalsByType(ctx context.Context) ([]store.AccountTypeTotal, error)
}

type LedgerTotals interface {
	TotalsByKind(ctx context.Context) ([]store.KindTotal, error)
}

type Reporter struct {
	source   StatementSource
	accounts AccountTotals
	ledger   LedgerTotals
	currency string
	now      func() time.Time
}

func NewReporter(source StatementSource, accounts AccountTotals, ledger LedgerTotals, currency string) *Reporter {
	return &Reporter{
		source:   source,
		accounts: accounts,
		ledger:   ledger,
		currency: currency,
		now:      time.Now,
	}
}

func (r *Reporter) Statement(ctx context.Context, number string, limit int) (Statement, error) {
	account, err := r.source.GetAccount(ctx, number)
	if err != nil {
		return Statement{}, err
	}
	entries, err := r.source.Statement(ctx, number, limit)
	if err != nil {
		return Statement{}, err
	}
	statement := Statement{Account: account, Lines: make([]StatementLine, 0, len(entries))}
	for _, entry := range entries {
		line, err := Classify(entry, number)
		if err != nil {
			return Statement{}, fmt.Errorf("Statement: %w", err)
		}
		if line.Amount > 0 {
			statement.TotalCredits += line.Amount
		} else {
			statement.TotalDebits += -line.Amount
		}
		statement.Lines = append(statement.Lines, line)
	}
	return statement, nil
}

func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	byType, err := r.accounts.TotalsByType(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("Summary: accounts: %w", err)
	}
	byKind, err := r.ledger.TotalsByKind(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("Summary: ledger: %w", err)
	}
	summary := Summary{
		Currency:    r.currency,
		ByType:      byType,
		ByKind:      byKind,
		GeneratedAt: r.now().UTC(),
	}
	for _, t := range byType {
		summary.AccountCount += t.Count
		summary.TotalBalance += t.Balance
	}
	return summary, nil
}
