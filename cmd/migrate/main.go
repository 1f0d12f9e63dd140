package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"banktech/internal/config"
	"banktech/internal/db"
	"banktech/internal/logging"
	"banktech/internal/seed"
	"banktech/internal/services"
	"banktech/internal/store"
)

func main() {
	demo := flag.Bool("demo", false, "also create the admin user and the demo accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New("banktech-migrate", cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema is current")
	if !*demo {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	if err := seed.EnsureAdmin(ctx, users, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	service := services.NewBankingService(db.NewTxRunner(database), store.NewAccountStore(database), store.NewLedgerStore(database), nil, cfg.Currency)
	opened, err := seed.Demo(ctx, service, logger)
	if err != nil {
		logger.Fatal("failed to seed demo accounts", zap.Error(err))
	}
	logger.Info("demo data ready", zap.Int("opened", opened))
}
