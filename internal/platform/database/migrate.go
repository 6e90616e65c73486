package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. The schema carries the uniqueness
// constraints the scoring upserts depend on, so the server refuses to start
// if this fails.
func Migrate() {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		log.Fatalf("Error loading embedded migrations: %v", err)
	}

	driver, err := pgxmigrate.WithInstance(DB, &pgxmigrate.Config{})
	if err != nil {
		log.Fatalf("Error preparing migration driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		log.Fatalf("Error initializing migrations: %v", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Error applying migrations: %v", err)
	}

	fmt.Println("Database schema up to date.")
}
