package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"banktech/internal/db"
)

// SetupTestDB starts a throwaway postgres, applies the embedded migrations and
// returns a pool. Tests are skipped under -short or when docker is unavailable.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("banktech_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}
	if err := db.Migrate(connStr); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	conn, err := db.Connect(ctx, connStr, db.PoolConfig{MaxOpenConns: 20, MaxIdleConns: 5})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func GetAccountBalance(t *testing.T, conn *sqlx.DB, number string) int64 {
	t.Helper()
	var balance int64
	if err := conn.Get(&balance, `SELECT balance FROM accounts WHERE number = $1`, number); err != nil {
		t.Fatalf("get account balance %s: %v", number, err)
	}
	return balance
}

func CountEntries(t *testing.T, conn *sqlx.DB, number string) int {
	t.Helper()
	var count int
	err := conn.Get(&count, `
		SELECT COUNT(*) FROM transactions
		WHERE source_account = $1 OR destination_account = $1
	`, number)
	if err != nil {
		t.Fatalf("count entries for %s: %v", number, err)
	}
	return count
}
