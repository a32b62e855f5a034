package internal

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dukerupert/presswork/migrations"
)

// RunMigrations executes all pending database migrations
func RunMigrations(db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// RollbackMigration reverts the most recently applied migration.
func RollbackMigration(db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}

	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	return nil
}

// MigrationStatus prints applied and pending migrations through goose's logger.
func MigrationStatus(db *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.Status(db, ".")
}

func prepareGoose() error {
	goose.SetBaseFS(migrations.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
