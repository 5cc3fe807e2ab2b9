// Package ledger reglas puras del libro de movimientos: signo, saldo acumulado,
// control de salidas y marcas de deshacer/ajuste. Sin acceso a datos.
package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// Prefijos de nota que el sistema escribe y luego vuelve a leer.
const (
	UndoNotePrefix       = "Undo of "
	AdjustmentNotePrefix = "Stock adjustment: "
)

// Estados de stock para mostrar en listados.
const (
	StatusHealthy  = "healthy"
	StatusZero     = "zero"
	StatusNegative = "negative"
)

// ValidDirection indica si d es "in" u "out".
func ValidDirection(d string) bool {
	return d == entity.DirectionIn || d == entity.DirectionOut
}

// Opposite dirección contraria.
func Opposite(d string) string {
	if d == entity.DirectionIn {
		return entity.DirectionOut
	}
	return entity.DirectionIn
}

// Signed cantidad con signo: +q para entradas, -q para salidas.
func Signed(direction string, qty decimal.Decimal) decimal.Decimal {
	if direction == entity.DirectionOut {
		return qty.Neg()
	}
	return qty
}

// Next saldo tras aplicar un movimiento sobre prev.
func Next(prev decimal.Decimal, direction string, qty decimal.Decimal) decimal.Decimal {
	return prev.Add(Signed(direction, qty))
}

// Fold suma con signo de todos los movimientos; 0 si no hay ninguno.
func Fold(movements []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(Signed(m.Direction, m.Quantity))
	}
	return total
}

// BalanceMap saldo por producto.
type BalanceMap map[string]decimal.Decimal

// Of saldo del producto; 0 si no tiene movimientos.
func (m BalanceMap) Of(productID string) decimal.Decimal {
	if b, ok := m[productID]; ok {
		return b
	}
	return decimal.Zero
}

// Add acumula un movimiento en el mapa.
func (m BalanceMap) Add(productID, direction string, qty decimal.Decimal) {
	m[productID] = m.Of(productID).Add(Signed(direction, qty))
}

// CheckDispatch valida una salida de qty contra el saldo actual.
// Devuelve *domain.StockError (déficit o insuficiente) o nil.
func CheckDispatch(balance, qty decimal.Decimal) error {
	if !balance.IsPositive() {
		return &domain.StockError{Err: domain.ErrStockInDeficit, Requested: qty, Balance: balance}
	}
	if qty.GreaterThan(balance) {
		return &domain.StockError{Err: domain.ErrInsufficientStock, Requested: qty, Balance: balance}
	}
	return nil
}

// IsLargeDispatch salida que supera el umbral de revisión.
func IsLargeDispatch(direction string, qty, threshold decimal.Decimal) bool {
	return direction == entity.DirectionOut && qty.GreaterThan(threshold)
}

// StockStatus clasifica un saldo.
func StockStatus(balance decimal.Decimal) string {
	switch {
	case balance.IsNegative():
		return StatusNegative
	case balance.IsZero():
		return StatusZero
	default:
		return StatusHealthy
	}
}

// UndoNote nota del movimiento compensatorio de movementID.
func UndoNote(movementID string) string {
	return UndoNotePrefix + movementID
}

// IsUndo indica si la nota marca un movimiento de deshacer.
func IsUndo(note string) bool {
	return strings.HasPrefix(note, UndoNotePrefix)
}

// UndoIdempotencyKey clave del movimiento compensatorio.
func UndoIdempotencyKey(movementID string, at time.Time) string {
	return "undo:" + movementID + ":" + strconv.FormatInt(at.UnixMilli(), 10)
}

// AdjustmentNote nota del movimiento correctivo de un ajuste.
func AdjustmentNote(reason string) string {
	return AdjustmentNotePrefix + reason
}

// AdjustmentIdempotencyKey clave del movimiento correctivo de un ajuste.
func AdjustmentIdempotencyKey(adjustmentID string) string {
	return "adj:" + adjustmentID
}
