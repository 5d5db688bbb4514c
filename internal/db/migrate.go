// Package db applies the PostgreSQL schema of the ontology store.
//
// Migration files live in internal/db/migrations/ and are embedded via
// //go:embed; Migrate applies the pending ones with goose.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/db/migrations"
	"github.com/lexiconlab/babelex/internal/dbpool"
)

// ErrSchemaOutdated is returned by CheckSchema when migrations are pending.
var ErrSchemaOutdated = errors.New("database schema has pending migrations; run `babelex migrate`")

// withProvider opens a database/sql handle on the pool's connection string
// for the duration of fn. goose needs a *sql.DB, the pool speaks pgx.
func withProvider(pool *dbpool.Pool, fsys fs.FS, fn func(*goose.Provider) error) error {
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	return fn(provider)
}

// Migrate applies the embedded ontology schema.
func Migrate(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger) error {
	return RunMigrations(ctx, pool, log, migrations.FS)
}

// RunMigrations applies all pending migrations from the provided filesystem.
// The fsys should contain goose-annotated SQL files (e.g. "001_ontology.sql").
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	return withProvider(pool, fsys, func(provider *goose.Provider) error {
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}

		for _, r := range results {
			if r.Error != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
			}

			log.WithFields(logrus.Fields{
				"version":  r.Source.Version,
				"file":     r.Source.Path,
				"duration": r.Duration,
			}).Info("migration applied")
		}

		if len(results) == 0 {
			log.Debug("all migrations already applied")
		}

		return nil
	})
}

// CheckSchema returns ErrSchemaOutdated unless every embedded migration has
// been applied.
func CheckSchema(ctx context.Context, pool *dbpool.Pool) error {
	return withProvider(pool, migrations.FS, func(provider *goose.Provider) error {
		pending, err := provider.HasPending(ctx)
		if err != nil {
			return fmt.Errorf("checking migrations: %w", err)
		}

		if pending {
			return ErrSchemaOutdated
		}

		return nil
	})
}
