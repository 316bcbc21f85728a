package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/saldo-pay/saldo_pay/internal/config"
	"github.com/saldo-pay/saldo_pay/internal/ledger"
	"github.com/saldo-pay/saldo_pay/internal/middleware"
	"github.com/saldo-pay/saldo_pay/internal/statement"
	"github.com/saldo-pay/saldo_pay/internal/transaction"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// The in-memory store is a development convenience only; every real
	// deployment shares one Postgres.
	if d.DB == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewInMemory()
		// Mirror the wallets migrations/init.sql provisions.
		for id, limit := range map[int64]int64{1: 100000, 2: 80000, 3: 1000000, 4: 10000000, 5: 500000} {
			ledger.SeedWallet(store, id, 0, limit)
		}
	}

	engine := transaction.NewEngine(store, d.Logger, transaction.RetryPolicy{
		MaxRetries: d.Cfg.ApplyMaxRetries,
		BaseDelay:  d.Cfg.ApplyRetryBase,
	})
	reader := statement.NewReader(store, d.Logger)

	RegisterClientRoutes(app, transaction.NewHandler(engine), statement.NewHandler(reader))

	return nil
}
