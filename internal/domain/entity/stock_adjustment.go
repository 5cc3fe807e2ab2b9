package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment auditoría de una corrección de saldo hecha por un administrador.
// Si OldBalance != NewBalance existe exactamente un movimiento correctivo asociado.
type StockAdjustment struct {
	ID         string
	ProductID  string
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal
	Reason     string
	AdjustedBy string
	CreatedAt  time.Time
}
