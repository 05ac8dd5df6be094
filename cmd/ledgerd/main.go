package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	ledgercore "github.com/set-night/ledgercore"
	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/events"
	"github.com/set-night/ledgercore/internal/handler"
	"github.com/set-night/ledgercore/internal/middleware"
	"github.com/set-night/ledgercore/internal/repository"
	"github.com/set-night/ledgercore/internal/repository/sqlc"
	"github.com/set-night/ledgercore/internal/service"
	"github.com/set-night/ledgercore/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open ledger store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Without a token only the schema is kept up to date.
	if cfg.BotToken == "" {
		slog.Info("ops bot disabled, BOT_TOKEN is empty", "store", cfg.Store)
		<-ctx.Done()
		slog.Info("ledger stopped")
		return
	}

	// The recover middleware reports through the notifier, which needs the bot.
	var notifier *telegram.Notifier
	reportPanic := middleware.ReporterFunc(func(ctx context.Context, err error, where string) {
		if notifier != nil {
			notifier.LogError(ctx, err, where)
		}
	})

	// Create bot
	b, err := bot.New(cfg.BotToken,
		bot.WithMiddlewares(
			middleware.Recover(reportPanic),
			middleware.Logging(),
			middleware.AdminOnly(cfg),
		),
	)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	notifier = telegram.NewNotifier(b, cfg)

	// Initialize services
	emitter := events.Multi{events.NewLogEmitter(logger), notifier}
	ledger := service.NewLedgerService(store, emitter, service.PolicyFromConfig(cfg))
	queries := service.NewQueryService(store)

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	h := handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		Ledger:   ledger,
		Queries:  queries,
		Notifier: notifier,
	})
	h.Register()

	slog.Info("starting ops bot", "username", me.Username, "id", me.ID, "store", cfg.Store, "admins", cfg.AdminIDsString())
	b.Start(ctx)

	slog.Info("ops bot stopped gracefully")
}

// openStore builds the configured ledger store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory ledger store, data is lost on exit")
		return repository.NewMemoryStore(cfg.LockTimeout), func() {}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, nil, err
	}

	migrationsFS, err := fs.Sub(ledgercore.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repository.NewPostgresStore(pool, sqlc.New(pool), cfg.LockTimeout), pool.Close, nil
}
