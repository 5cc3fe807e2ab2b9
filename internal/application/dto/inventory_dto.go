package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// RecordMovementRequest entrada de POST /api/movements. El usuario sale del token.
type RecordMovementRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Direction      string          `json:"direction" validate:"required,oneof=in out"`
	Quantity       decimal.Decimal `json:"quantity"`
	Note           string          `json:"note" validate:"max=500"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,max=200"`
}

// RecordMovementResponse resultado de registrar un movimiento.
type RecordMovementResponse struct {
	MovementID      string          `json:"movement_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	LargeDispatch   bool            `json:"large_dispatch"` // salida marcada para revisión del admin
}

// AdjustBalanceRequest entrada de POST /api/adjustments.
type AdjustBalanceRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	NewBalance *decimal.Decimal `json:"new_balance" validate:"required"` // ausente o null no equivale a cero
	Reason     string           `json:"reason" validate:"required,max=500"`
}

// AdjustBalanceResponse resultado del ajuste.
type AdjustBalanceResponse struct {
	AdjustmentID string          `json:"adjustment_id"`
	OldBalance   decimal.Decimal `json:"old_balance"`
	NewBalance   decimal.Decimal `json:"new_balance"`
	MovementID   string          `json:"movement_id,omitempty"`
}

// AdjustmentDTO fila de la auditoría de ajustes.
type AdjustmentDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	OldBalance     decimal.Decimal `json:"old_balance"`
	NewBalance     decimal.Decimal `json:"new_balance"`
	Reason         string          `json:"reason"`
	AdjustedBy     string          `json:"adjusted_by"`
	AdjustedByName string          `json:"adjusted_by_name"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentDTO `json:"items"`
	Page  PageResponse    `json:"page"`
}

// MovementDTO movimiento del libro con nombres resueltos.
type MovementDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKUCode       *string         `json:"sku_code,omitempty"`
	Direction     string          `json:"direction"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Note          string          `json:"note,omitempty"`
	EnteredBy     string          `json:"entered_by"`
	EnteredByName string          `json:"entered_by_name"`
	IsUndo        bool            `json:"is_undo"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BalanceResponse saldo derivado de un producto.
type BalanceResponse struct {
	ProductID string          `json:"product_id"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"` // healthy | zero | negative
}

// NewMovementDTO convierte la lectura del repositorio.
func NewMovementDTO(m *repository.MovementDetail) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.Product.DisplayName(),
		SKUCode:       m.Product.SKUCode,
		Direction:     m.Direction,
		Quantity:      m.Quantity,
		BalanceAfter:  m.BalanceAfter,
		Note:          m.Note,
		EnteredBy:     m.EnteredBy,
		EnteredByName: m.EnteredByName,
		IsUndo:        ledger.IsUndo(m.Note),
		CreatedAt:     m.CreatedAt,
	}
}

// NewMovementDTOs convierte una lista; nunca devuelve nil.
func NewMovementDTOs(list []*repository.MovementDetail) []MovementDTO {
	out := make([]MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementDTO(m))
	}
	return out
}

// NewAdjustmentDTO convierte la lectura del repositorio.
func NewAdjustmentDTO(a *repository.AdjustmentDetail) AdjustmentDTO {
	return AdjustmentDTO{
		ID:             a.ID,
		ProductID:      a.ProductID,
		ProductName:    a.Product.DisplayName(),
		OldBalance:     a.OldBalance,
		NewBalance:     a.NewBalance,
		Reason:         a.Reason,
		AdjustedBy:     a.AdjustedBy,
		AdjustedByName: a.AdjustedByName,
		CreatedAt:      a.CreatedAt,
	}
}
