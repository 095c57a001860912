package database

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/logger"
)

// RunMigrations applies every up migration found under <driver>/ in fsys.
// SQLite migrations run on the already opened handle so in-process databases share schema.
func RunMigrations(cfg Config, db *sqlx.DB, fsys fs.FS) error {
	if fsys == nil {
		return fmt.Errorf("migrations: nil source filesystem")
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	dir := cfg.Driver

	files := listMigrationFiles(fsys, dir)
	preview, truncated := logger.SummarizeStrings(files, 6)
	args := []any{
		slog.String("event", "resolve"),
		slog.String("driver", cfg.Driver),
		slog.Int("files_total", len(files)),
	}
	if preview != "" {
		args = append(args, slog.String("files_preview", preview))
	}
	if truncated {
		args = append(args, slog.Bool("files_truncated", true))
	}
	logger.MIG.Debug("migrations resolved", args...)

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return migrationError("source", fmt.Errorf("open migration source: %w", err))
	}

	var m *migrate.Migrate
	switch cfg.Driver {
	case DriverSQLite:
		if db == nil {
			return fmt.Errorf("migrations: sqlite requires an open database handle")
		}
		drv, derr := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if derr != nil {
			return migrationError("init", fmt.Errorf("sqlite migrate driver: %w", derr))
		}
		m, err = migrate.NewWithInstance("iofs", src, DriverSQLite, drv)
	default:
		m, err = migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
		if err == nil {
			defer m.Close()
		}
	}
	if err != nil {
		return migrationError("init", fmt.Errorf("failed to initialize migrations: %w", err))
	}

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := logger.Took(start)

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.MIG.Info("migrations summary",
			slog.String("event", "summary"),
			slog.Uint64("from_ver", uint64(fromVer)),
			slog.Uint64("to_ver", uint64(fromVer)),
			slog.Int("files", 0),
			slog.Duration("duration", took),
		)
		return nil
	}
	if upErr != nil {
		return migrationError("apply", fmt.Errorf("migration execution failed: %w", upErr))
	}

	toVer, _, _ := m.Version()
	applied := selectApplied(files, uint64(fromVer), uint64(toVer))
	if len(applied) > 0 {
		p, tr := logger.SummarizeStrings(applied, 6)
		logger.MIG.Debug("applied files",
			slog.String("event", "apply"),
			slog.Int("files_total", len(applied)),
			slog.String("files_preview", p),
			slog.Bool("files_truncated", tr),
		)
	}

	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func migrationError(stage string, err error) error {
	logger.MIG.Error("migration failed",
		slog.String("event", stage),
		slog.String("err", err.Error()),
	)
	return err
}

func listMigrationFiles(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	if to <= from {
		return nil
	}
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
