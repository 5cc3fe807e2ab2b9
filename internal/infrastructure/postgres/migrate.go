package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq" // driver database/sql usado solo por goose
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica las migraciones pendientes (goose) sobre dsn.
func Migrate(ctx context.Context, dsn string) ([]*goose.MigrationResult, error) {
	db, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir DB para migraciones: %w", err)
	}
	defer db.Close()

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	return results, nil
}
