package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// Movement registro inmutable del libro: una entrada o salida de stock.
// BalanceAfter es la suma con signo de los movimientos del producto hasta este inclusive.
type Movement struct {
	ID             string
	ProductID      string
	Direction      string
	Quantity       decimal.Decimal // siempre > 0; el signo lo da Direction
	BalanceAfter   decimal.Decimal
	Note           string // vacío = sin nota
	EnteredBy      string
	IdempotencyKey string
	CreatedAt      time.Time
}
