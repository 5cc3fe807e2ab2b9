package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// CreateProductRequest entrada para crear una variante (admin).
type CreateProductRequest struct {
	CategoryID string  `json:"category_id" validate:"required"`
	ColorID    string  `json:"color_id" validate:"required"`
	UnitID     string  `json:"unit_id" validate:"required"`
	SizeLabel  string  `json:"size_label" validate:"required,max=50"`
	SKUCode    *string `json:"sku_code" validate:"omitempty,min=1,max=40"`
}

// UpdateProductRequest entrada para editar talla o estado (admin).
type UpdateProductRequest struct {
	SizeLabel *string `json:"size_label" validate:"omitempty,min=1,max=50"`
	IsActive  *bool   `json:"is_active"`
}

// ProductResponse producto con su saldo derivado.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ColorID      string          `json:"color_id"`
	ColorName    string          `json:"color_name"`
	ColorHex     *string         `json:"color_hex,omitempty"`
	UnitID       string          `json:"unit_id"`
	UnitName     string          `json:"unit_name"`
	SizeLabel    string          `json:"size_label"`
	SKUCode      *string         `json:"sku_code,omitempty"`
	IsActive     bool            `json:"is_active"`
	Balance      decimal.Decimal `json:"balance"`
	StockStatus  string          `json:"stock_status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProductDetailResponse producto con su historial completo de movimientos.
type ProductDetailResponse struct {
	ProductResponse
	Movements []MovementDTO `json:"movements"`
}

// NewProductResponse arma la respuesta a partir del detalle y su saldo.
func NewProductResponse(p *repository.ProductDetail, balance decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.DisplayName(),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		ColorID:      p.ColorID,
		ColorName:    p.ColorName,
		ColorHex:     p.ColorHex,
		UnitID:       p.UnitID,
		UnitName:     p.UnitName,
		SizeLabel:    p.SizeLabel,
		SKUCode:      p.SKUCode,
		IsActive:     p.IsActive,
		Balance:      balance,
		StockStatus:  ledger.StockStatus(balance),
		CreatedAt:    p.CreatedAt,
	}
}

// CatalogResponse catálogo completo para formularios.
type CatalogResponse struct {
	Categories []CategoryDTO `json:"categories"`
	Colors     []ColorDTO    `json:"colors"`
	Units      []UnitDTO     `json:"units"`
}

// CategoryDTO categoría.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ColorDTO color.
type ColorDTO struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	HexCode *string `json:"hex_code,omitempty"`
}

// UnitDTO unidad.
type UnitDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateCategoryRequest entrada para crear categoría (admin).
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateColorRequest entrada para crear color (admin).
type CreateColorRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	HexCode *string `json:"hex_code" validate:"omitempty,hexcolor"`
}

// CreateUnitRequest entrada para crear unidad (admin).
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
