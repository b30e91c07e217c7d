package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/iliyamo/freelance-marketplace/internal/config"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

var dialects = map[string]goose.Dialect{
	config.DriverMySQL:    goose.DialectMySQL,
	config.DriverPostgres: goose.DialectPostgres,
	config.DriverSQLite:   goose.DialectSQLite3,
}

// Migrate applies every pending migration for the connection's dialect.
func Migrate(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	dialect, ok := dialects[db.DriverName()]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
	fsys, err := fs.Sub(embedMigrations, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("took", r.Duration))
	}
	return nil
}
