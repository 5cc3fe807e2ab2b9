package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia de categorías, colores y unidades.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	ListColors(ctx context.Context) ([]*entity.Color, error)
	ListUnits(ctx context.Context) ([]*entity.Unit, error)
	// CreateCategory devuelve domain.ErrDuplicate si el nombre ya existe.
	CreateCategory(ctx context.Context, category *entity.Category) error
	CreateColor(ctx context.Context, color *entity.Color) error
	CreateUnit(ctx context.Context, unit *entity.Unit) error
}
