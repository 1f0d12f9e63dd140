package store

import (
	"context"

	"banktech/internal/models"
)

// LedgerStore reads and appends to the transactions relation. There is no
// update or delete path; the schema trigger rejects both.
type LedgerStore struct {
	db DB
}

type NewEntry struct {
	SourceAccount      *string
	DestinationAccount *string
	Kind               models.EntryKind
	Amount             int64
	Description        string
}

type KindTotal struct {
	Kind   models.EntryKind `db:"kind" json:"kind"`
	Count  int64            `db:"count" json:"count"`
	Volume int64            `db:"volume" json:"volume"`
}

const entryColumns = `id, source_account, destination_account, kind, amount, description, created_at`

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Append(ctx context.Context, tx Getter, input NewEntry) (models.LedgerEntry, error) {
	var row models.LedgerEntry
	err := tx.GetContext(ctx, &row, `
		INSERT INTO transactions (source_account, destination_account, kind, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+entryColumns,
		input.SourceAccount, input.DestinationAccount, input.Kind, input.Amount, input.Description)
	if err != nil {
		return models.LedgerEntry{}, translate(err)
	}
	return row, nil
}

// ForAccount returns entries where the account is either end, newest first.
func (s *LedgerStore) ForAccount(ctx context.Context, number string, limit int) ([]models.LedgerEntry, error) {
	rows := []models.LedgerEntry{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+entryColumns+`
		FROM transactions
		WHERE source_account = $1 OR destination_account = $1
		ORDER BY id DESC
		LIMIT $2
	`, number, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LedgerStore) All(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	rows := []models.LedgerEntry{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+entryColumns+`
		FROM transactions
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LedgerStore) TotalsByKind(ctx context.Context) ([]KindTotal, error) {
	rows := []KindTotal{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT kind, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS volume
		FROM transactions
		GROUP BY kind
		ORDER BY kind
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
