package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Solo agrega; no hay update ni delete.
type MovementRepository interface {
	// Create agrega el movimiento. Devuelve domain.ErrDuplicateSubmission si la clave de idempotencia ya existe.
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error)
	// HasNotePrefix indica si el producto tiene algún movimiento cuya nota empieza por prefix.
	HasNotePrefix(ctx context.Context, productID, prefix string) (bool, error)
	// BalanceOf suma con signo de los movimientos del producto; 0 si no hay.
	BalanceOf(ctx context.Context, productID string) (decimal.Decimal, error)
	// BalanceMap saldos agrupados por producto en una sola pasada.
	// Sin ids recorre todo el libro; los productos sin movimientos no aparecen.
	BalanceMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error)
}
