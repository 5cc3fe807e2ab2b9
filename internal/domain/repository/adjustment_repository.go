package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// AdjustmentDetail ajuste con el producto y el usuario resueltos.
type AdjustmentDetail struct {
	entity.StockAdjustment
	Product        ProductDetail
	AdjustedByName string
}

// AdjustmentRepository puerto de la auditoría de ajustes. Solo agrega.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	// List más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*AdjustmentDetail, error)
}
