package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MovementDetail movimiento con producto y usuario resueltos (lectura para reportes e historial).
type MovementDetail struct {
	entity.Movement
	Product       ProductDetail
	EnteredByName string
}

// MovementFilter filtros de lectura del libro. Los campos vacíos no filtran.
type MovementFilter struct {
	ProductID           string
	EnteredBy           string
	Direction           string
	From                *time.Time       // inclusivo
	To                  *time.Time       // exclusivo
	MinQuantity         *decimal.Decimal // estrictamente mayor
	NegativeBalanceOnly bool             // balance_after < 0
	Limit               int              // 0 = sin límite
	Ascending           bool             // por defecto más recientes primero
}

// DirectionTotal total y conteo de movimientos de una dirección.
type DirectionTotal struct {
	Direction string
	Total     decimal.Decimal
	Count     int
}

// ReportRepository consultas de solo lectura sobre el libro.
type ReportRepository interface {
	ListMovements(ctx context.Context, filter MovementFilter) ([]*MovementDetail, error)
	// DirectionTotals agrega por dirección en [from, to).
	DirectionTotals(ctx context.Context, from, to time.Time) ([]DirectionTotal, error)
	CountMovements(ctx context.Context, from, to time.Time) (int, error)
}
