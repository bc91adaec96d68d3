package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aifirstlegal/masterclass-server/migrations"
)

const migrationsTable = "schema_migrations"

// ErrDirtySchema is returned when a previous migration stopped halfway. Startup refuses to
// continue until an operator repairs the schema and forces the version.
var ErrDirtySchema = errors.New("schema is dirty")

// Migrate brings the schema up to the newest embedded migration.
func Migrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	log = log.With().Str("component", "migrate").Logger()

	m, closeFn, err := newMigrator(ctx, db)
	if err != nil {
		return err
	}
	defer closeFn()

	before, dirty, err := currentVersion(m)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, before)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, _, err := currentVersion(m)
	if err != nil {
		return err
	}
	if after == before {
		log.Info().Uint("version", after).Msg("schema up to date")
	} else {
		log.Info().Uint("from", before).Uint("to", after).Msg("schema migrated")
	}
	return nil
}

func newMigrator(ctx context.Context, db *gorm.DB) (*migrate.Migrate, func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reserve migration connection: %w", err)
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return nil, nil, fmt.Errorf("embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	// Close releases both the source and the reserved connection.
	return m, func() { _, _ = m.Close() }, nil
}

func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}
