package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"sa-fashion-be/internal/config"
	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "directory holding *.sql migrations")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L().With(zap.String("component", "migrate"), zap.String("mode", *mode))

	if err := checkPostgresURL(cfg.DatabaseURL); err != nil {
		log.Fatal("cannot migrate", zap.Error(err))
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	defer database.Close()

	if err := run(context.Background(), database, *mode, *dir); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

// checkPostgresURL rejects configurations this runner cannot serve.
// The MongoDB backend is schemaless and has nothing to migrate.
func checkPostgresURL(raw string) error {
	if raw == "" {
		return db.ErrNotConfigured
	}
	driver, err := db.DriverFromURL(raw)
	if err != nil {
		return err
	}
	if driver != db.DriverPostgres {
		return fmt.Errorf("%w: migrations apply to postgres only, got %s", db.ErrUnsupportedDriver, driver)
	}
	return nil
}

func run(ctx context.Context, database *sql.DB, mode, migrationsDir string) error {
	_, err := database.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	slices.Sort(files)

	switch mode {
	case "up":
		return runMigrationsUp(ctx, database, files)
	case "down":
		return runMigrationsDown(ctx, database, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func runMigrationsUp(ctx context.Context, database *sql.DB, files []string) error {
	log := logger.L().With(zap.String("component", "migrate"))
	applied := 0

	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := database.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Info("⏭ skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("🚀 applying migration", zap.String("version", version))
		if err := applyInTx(ctx, database, extractMigrationPart(string(content), "Up"),
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("migration %s: %w", version, err)
		}
		applied++
	}

	log.Info("✅ migrations up to date", zap.Int("applied", applied))
	return nil
}

func runMigrationsDown(ctx context.Context, database *sql.DB, files []string) error {
	log := logger.L().With(zap.String("component", "migrate"))

	var lastVersion string
	err := database.QueryRowContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`,
	).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("⚠️ no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	idx := slices.IndexFunc(files, func(f string) bool { return filepath.Base(f) == lastVersion })
	if idx < 0 {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(files[idx])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", files[idx], err)
	}

	log.Info("🧹 rolling back migration", zap.String("version", lastVersion))
	if err := applyInTx(ctx, database, extractMigrationPart(string(content), "Down"),
		`DELETE FROM schema_migrations WHERE version = $1`, lastVersion); err != nil {
		return fmt.Errorf("rollback %s: %w", lastVersion, err)
	}

	log.Info("✅ rollback successful", zap.String("version", lastVersion))
	return nil
}

// applyInTx runs body and the bookkeeping statement in one transaction.
func applyInTx(ctx context.Context, database *sql.DB, body, bookkeeping, version string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(body) != "" {
		if _, err := tx.ExecContext(ctx, body); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, version); err != nil {
		return fmt.Errorf("failed to record migration version: %w", err)
	}
	return tx.Commit()
}

// extractMigrationPart returns the lines between "-- +migrate <section>"
// and the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	inPart := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
