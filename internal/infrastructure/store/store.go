// Package store abre el almacén configurado (PostgreSQL o SQLite), aplica las
// migraciones y expone los repositorios del libro.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Bodega-api/pkg/config"
)

// Store repositorios atados al pool o a la base SQLite, más el TxRunner del libro.
type Store struct {
	Driver      string
	Users       repository.UserRepository
	Catalog     repository.CatalogRepository
	Products    repository.ProductRepository
	Movements   repository.MovementRepository
	Adjustments repository.AdjustmentRepository
	Reports     repository.ReportRepository
	TxRunner    inventory.TxRunner

	ping  func(ctx context.Context) error
	close func()
}

// Open conecta según cfg.Driver y aplica las migraciones pendientes.
func Open(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("driver de almacén no soportado: %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	results, err := postgres.Migrate(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("migraciones PostgreSQL: %w", err)
	}
	log.Info().Int("aplicadas", len(results)).Msg("migraciones PostgreSQL")

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &Store{
		Driver:      config.DriverPostgres,
		Users:       postgres.NewUserRepository(pool),
		Catalog:     postgres.NewCatalogRepository(pool),
		Products:    postgres.NewProductRepository(pool),
		Movements:   postgres.NewMovementRepository(pool),
		Adjustments: postgres.NewAdjustmentRepository(pool),
		Reports:     postgres.NewReportRepository(pool),
		TxRunner:    postgres.NewTxRunner(pool),
		ping:        pool.Ping,
		close:       pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	results, err := sqlite.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migraciones SQLite: %w", err)
	}
	log.Info().
		Str("path", cfg.SQLitePath).
		Str("sqlite", sqlite.Version()).
		Int("aplicadas", len(results)).
		Msg("migraciones SQLite")

	return &Store{
		Driver:      config.DriverSQLite,
		Users:       sqlite.NewUserRepository(db),
		Catalog:     sqlite.NewCatalogRepository(db),
		Products:    sqlite.NewProductRepository(db),
		Movements:   sqlite.NewMovementRepository(db),
		Adjustments: sqlite.NewAdjustmentRepository(db),
		Reports:     sqlite.NewReportRepository(db),
		TxRunner:    sqlite.NewTxRunner(db),
		ping:        db.PingContext,
		close:       func() { _ = db.Close() },
	}, nil
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close libera las conexiones.
func (s *Store) Close() {
	s.close()
}
