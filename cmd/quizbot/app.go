package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/bootstrap"
	corecmd "github.com/m3rciful/quizbot/core/cmd"
	"github.com/m3rciful/quizbot/core/logger"
	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/router"
	"github.com/m3rciful/quizbot/core/telegram/state"
	"github.com/m3rciful/quizbot/internal/access"
	"github.com/m3rciful/quizbot/internal/bot"
	"github.com/m3rciful/quizbot/internal/config"
	"github.com/m3rciful/quizbot/internal/events"
	"github.com/m3rciful/quizbot/internal/ops"
	"github.com/m3rciful/quizbot/internal/storage"
	"github.com/m3rciful/quizbot/migrations"
)

// app owns every long-lived dependency of the process.
type app struct {
	cfg       *config.Config
	db        *sqlx.DB
	store     *storage.SQLStore
	policy    *access.Policy
	publisher events.Publisher
	bot       *bot.Bot
	registry  *tg.Registry
	ops       *ops.Server
}

var (
	_ corecmd.TelegramApp     = (*app)(nil)
	_ corecmd.SidecarProvider = (*app)(nil)
)

func bootstrapApp(ctx context.Context, cfg *config.Config) (*app, error) {
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.Database,
		Migrations: migrations.FS,
		Seeders:    []bootstrap.Seeder{storage.FileSeeder(cfg.Quiz.SeedFile)},
	})
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			_ = res.DB.Close()
			return nil, fmt.Errorf("events: %w", err)
		}
		publisher = p
	}

	a := newApp(cfg, res.DB, publisher)
	logger.L.With("component", "app").Info("app bootstrapped",
		slog.String("event", "bootstrap"),
		slog.String("db_driver", cfg.Database.Driver),
		slog.Bool("events", cfg.Events.URL != ""),
		slog.Bool("ops", a.ops != nil),
	)
	return a, nil
}

func newApp(cfg *config.Config, db *sqlx.DB, publisher events.Publisher) *app {
	store := storage.NewSQLStore(db)
	policy := access.NewPolicy(cfg.Telegram.AdminID, store)

	a := &app{
		cfg:       cfg,
		db:        db,
		store:     store,
		policy:    policy,
		publisher: publisher,
		registry:  tg.NewRegistry(),
	}
	a.bot = bot.New(bot.Deps{
		Store:      store,
		Policy:     policy,
		Sessions:   state.NewMemoryManager(),
		Events:     publisher,
		DonateText: cfg.Quiz.DonateText,
	})
	a.bot.Register(a.registry)
	if cfg.Ops.Listen != "" {
		a.ops = ops.NewServer(cfg.Ops.Listen, store)
	}
	return a
}

// TelegramRunOptions wires the registry into routes guarded by the access policy.
func (a *app) TelegramRunOptions() (tg.RunOptions, error) {
	accessOpts := router.AccessOptions{
		Authorizer: a.policy,
		OnReject:   a.bot.Reject,
	}

	routes := router.CommandRoutes(a.registry, accessOpts)
	routes = append(routes, router.TextRoutes(a.bot.Sessions(), a.registry, router.TextOptions{Access: accessOpts})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
	}, nil
}

// Sidecars returns the health server when it is configured.
func (a *app) Sidecars() []corecmd.Sidecar {
	if a.ops == nil {
		return nil
	}
	return []corecmd.Sidecar{a.ops.Run}
}

// Close releases the publisher and the database.
func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
