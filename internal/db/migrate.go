package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// gooseDialects lists the drivers the folders/images schema is written for
var gooseDialects = map[string]string{
	"sqlite": "sqlite3",
	"pgx":    "postgres",
}

func migrationDialect(driver string) (string, error) {
	dialect, ok := gooseDialects[driver]
	if !ok {
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
	return dialect, nil
}

// setupGoose points goose at the embedded schema. Goose's own logger is silenced,
// progress is reported through slog instead.
func setupGoose(driver string) error {
	dialect, err := migrationDialect(driver)
	if err != nil {
		return err
	}

	err = goose.SetDialect(dialect)
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	schema, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded schema: %w", err)
	}

	goose.SetBaseFS(schema)
	goose.SetLogger(goose.NopLogger())
	return nil
}

// RunMigrations brings the folders and images tables up to the latest schema version.
func RunMigrations(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	slog.Info("schema up to date", "driver", driver, "version", version)
	return nil
}

// MigrateDown undoes the most recent schema version.
func MigrateDown(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to roll back schema: %w", err)
	}

	slog.Info("schema rolled back", "driver", driver)
	return nil
}
