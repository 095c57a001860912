package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/quizbot/core/logger"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know; it speaks '?' natively.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// ReadyTimeout bounds how long Connect waits for the server to accept connections.
var ReadyTimeout = 30 * time.Second

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg Config) (*sqlx.DB, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	start := time.Now()
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		logger.DB.Error("db open failed",
			slog.String("event", "db.connect"),
			slog.String("driver", cfg.Driver),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	if err := waitReady(db, ReadyTimeout); err != nil {
		_ = db.Close()
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	attrs := []any{
		slog.String("event", "db.connect"),
		slog.String("driver", cfg.Driver),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.Took(start)),
	}
	if cfg.Driver == DriverSQLite {
		attrs = append(attrs, slog.String("db", cfg.Path))
	} else {
		attrs = append(attrs,
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
		)
	}
	logger.DB.Info("db connected", attrs...)
	return db, nil
}

// waitReady pings until the server answers or timeout elapses.
func waitReady(db *sqlx.DB, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := db.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database not ready after %d attempts: %w", attempt, err)
		}
		logger.DB.Debug("db not ready",
			slog.String("event", "db.ping"),
			slog.Int("attempts", attempt),
			slog.String("err", err.Error()),
		)
		time.Sleep(2 * time.Second)
	}
}
