package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"banktech/internal/config"
	"banktech/internal/db"
	"banktech/internal/handlers"
	"banktech/internal/logging"
	"banktech/internal/reporting"
	"banktech/internal/seed"
	"banktech/internal/services"
	"banktech/internal/store"
	"banktech/internal/websocket"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup so that main exits only after they ran.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}
	logger, err := logging.New("banktech-api", cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Printf("failed to build logger: %v", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to migrate database", zap.Error(err))
		return 1
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		logger.Error("failed to connect database", zap.Error(err))
		return 1
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	ledger := store.NewLedgerStore(database)
	hub := websocket.NewHub()
	service := services.NewBankingService(db.NewTxRunner(database), accounts, ledger, hub, cfg.Currency)
	reporter := reporting.NewReporter(service, accounts, ledger, cfg.Currency)

	if err := seed.EnsureAdmin(ctx, users, cfg.AdminPassword, logger); err != nil {
		logger.Error("failed to seed admin", zap.Error(err))
		return 1
	}
	if cfg.SeedDemo {
		if _, err := seed.Demo(ctx, service, logger); err != nil {
			logger.Error("failed to seed demo accounts", zap.Error(err))
			return 1
		}
	}

	handler := handlers.New(cfg, logger, users, service, reporter, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("banktech API listening", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
	return serve(ctx, server, logger)
}

// serve runs the server until ctx is cancelled or the listener fails, then
// drains in-flight requests. It returns the process exit code.
func serve(ctx context.Context, server *http.Server, logger *zap.Logger) int {
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		logger.Error("server error", zap.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		exitCode = 1
	}
	return exitCode
}
