package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Migrate applies every pending up migration for the driver behind db.
// It is a no-op when the schema is already current.
func Migrate(db *sqlx.DB) error {
	var (
		dir    string
		driver database.Driver
		err    error
	)
	switch db.DriverName() {
	case "mysql":
		dir = "migrations/mysql"
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case "pgx":
		dir = "migrations/postgres"
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return fmt.Errorf("migrate: driver %q has no migrations", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("migrate: database driver: %w", err)
	}

	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), driver)
	if err != nil {
		return fmt.Errorf("migrate: init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}
