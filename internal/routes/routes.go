package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mbongo-pay/mbongo_pay/internal/config"
	"github.com/mbongo-pay/mbongo_pay/internal/ledger"
	"github.com/mbongo-pay/mbongo_pay/internal/middleware"
	"github.com/mbongo-pay/mbongo_pay/internal/notifier"
	"github.com/mbongo-pay/mbongo_pay/internal/storage"
	"github.com/mbongo-pay/mbongo_pay/internal/transfer"
	"github.com/mbongo-pay/mbongo_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database or Redis (development only) the engine runs on in-memory
// backends with the same semantics.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var (
		runner  storage.Runner
		wallets wallet.Store
		entries ledger.Ledger
	)
	if d.DB != nil {
		runner = storage.NewPgxRunner(d.DB)
		wallets = wallet.NewPostgresStore(d.DB)
		entries = ledger.NewPostgresLedger(d.DB)
	} else {
		runner = storage.NewMemoryRunner()
		wallets = wallet.NewMemoryStore()
		entries = ledger.NewMemory()
	}

	var balanceNotifier notifier.Notifier
	if d.Cache != nil {
		balanceNotifier = notifier.NewRedisNotifier(d.Cache, d.Cfg.NotifyPrefix)
	} else {
		balanceNotifier = notifier.NewLoggerNotifier(d.Logger)
	}

	walletSvc := wallet.NewService(wallets, d.Cfg.DefaultCurrency)
	transferSvc := transfer.NewService(runner, wallets, entries, balanceNotifier, d.Logger)

	walletHandler := wallet.NewHandler(walletSvc, entries)
	transferHandler := transfer.NewHandler(transferSvc, d.Cfg.TransferTimeout, d.Logger)

	api := app.Group("/api/v1")
	RegisterWalletRoutes(api, walletHandler)
	RegisterTransferRoutes(api, transferHandler, d)

	return nil
}
