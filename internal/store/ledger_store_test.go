package store

import (
	"context"
	"strings"
	"testing"

	"banktech/internal/models"
)

func strPtr(s string) *string { return &s }

func TestLedgerStoreAppend(t *testing.T) {
	ctx := context.Background()
	tx := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "INSERT INTO transactions") || !strings.Contains(query, "RETURNING") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 {
				t.Fatalf("expected 5 args, got %d", len(args))
			}
			if src, ok := args[0].(*string); !ok || *src != "1001" {
				t.Fatalf("unexpected source: %#v", args[0])
			}
			if dst, ok := args[1].(*string); !ok || *dst != "1002" {
				t.Fatalf("unexpected destination: %#v", args[1])
			}
			if args[2] != models.KindTransfer || args[3] != int64(20000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.LedgerEntry) = models.LedgerEntry{ID: 7, Kind: models.KindTransfer, Amount: 20000}
			return nil
		},
	}
	store := NewLedgerStore(stubDB{})
	entry, err := store.Append(ctx, tx, NewEntry{
		SourceAccount:      strPtr("1001"),
		DestinationAccount: strPtr("1002"),
		Kind:               models.KindTransfer,
		Amount:             20000,
		Description:        "Transfer to 1002",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != 7 {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestLedgerStoreAppendDepositHasNoSource(t *testing.T) {
	tx := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if src, ok := args[0].(*string); !ok || src != nil {
				t.Fatalf("expected nil source, got %#v", args[0])
			}
			return nil
		},
	}
	store := NewLedgerStore(stubDB{})
	_, err := store.Append(context.Background(), tx, NewEntry{
		DestinationAccount: strPtr("1001"),
		Kind:               models.KindDeposit,
		Amount:             100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLedgerStoreForAccount(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "source_account = $1 OR destination_account = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "ORDER BY id DESC") {
				t.Fatalf("expected newest-first ordering: %s", query)
			}
			if len(args) != 2 || args[0] != "1001" || args[1] != 10 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.LedgerEntry) = []models.LedgerEntry{{ID: 3}, {ID: 1}}
			return nil
		},
	})
	rows, err := store.ForAccount(ctx, "1001", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 3 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestLedgerStoreAll(t *testing.T) {
	store := NewLedgerStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if strings.Contains(query, "WHERE") || !strings.Contains(query, "LIMIT $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != 50 {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	rows, err := store.All(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestLedgerStoreTotalsByKind(t *testing.T) {
	store := NewLedgerStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "GROUP BY kind") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]KindTotal) = []KindTotal{{Kind: models.KindDeposit, Count: 3, Volume: 900}}
			return nil
		},
	})
	rows, err := store.TotalsByKind(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Volume != 900 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
