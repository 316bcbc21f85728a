package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/saldo-pay/saldo_pay/internal/config"
	"github.com/saldo-pay/saldo_pay/internal/infra"
	"github.com/saldo-pay/saldo_pay/internal/logging"
)

const defaultMigrationsFile = "migrations/init.sql"

// Applies the ledger schema and seeds the provisioned wallets. Run once
// before the API replicas start taking traffic.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set to run migrations")
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	path := defaultMigrationsFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	sql, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		logger.Error("read migrations file", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, string(sql)); err != nil {
		logger.Error("apply migrations", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("migrations applied", "path", path)
}
