package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath base en memoria; se usa en pruebas y demos.
const MemoryPath = ":memory:"

// Open abre la base SQLite en path con claves foráneas y transacciones IMMEDIATE.
// Una sola conexión: SQLite admite un escritor a la vez y :memory: vive en esa conexión.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	if path != MemoryPath {
		params.Set("_journal_mode", "WAL")
	}

	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate aplica las migraciones pendientes (goose) sobre db.
func Migrate(ctx context.Context, db *sql.DB) ([]*goose.MigrationResult, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	return results, nil
}

// Version versión de la librería SQLite enlazada.
func Version() string {
	v, _, _ := sqlite3.Version()
	return v
}
