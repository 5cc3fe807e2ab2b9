package repository

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// ProductDetail producto con los nombres de su catálogo resueltos.
type ProductDetail struct {
	entity.Product
	CategoryName string
	ColorName    string
	ColorHex     *string
	UnitName     string
}

// DisplayName nombre legible de la variante: "Categoría - Color Talla (Unidad)".
func (p ProductDetail) DisplayName() string {
	return fmt.Sprintf("%s - %s %s (%s)", p.CategoryName, p.ColorName, p.SizeLabel, p.UnitName)
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // texto libre sobre categoría, color, talla, unidad y SKU
	ActiveOnly bool
	Limit      int // 0 = sin límite
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID, GetForUpdate y GetDetail devuelven nil, nil si no existe.
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si la variante o el SKU ya existen.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	// Serializa toda escritura en el libro de ese producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetDetail(ctx context.Context, id string) (*ProductDetail, error)
	List(ctx context.Context, filter ProductFilter) ([]*ProductDetail, error)
	// ListVariants productos con la misma categoría, color y unidad (cualquier talla).
	ListVariants(ctx context.Context, categoryID, colorID, unitID string) ([]*entity.Product, error)
	// Update actualiza talla y estado activo.
	Update(ctx context.Context, product *entity.Product) error
}
