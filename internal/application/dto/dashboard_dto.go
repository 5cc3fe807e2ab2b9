package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalSKUs          int                `json:"total_skus"`     // productos activos
	TotalInStock       decimal.Decimal    `json:"total_in_stock"` // suma de saldos positivos
	NegativeStockCount int                `json:"negative_stock_count"`
	NegativeStockItems []NegativeStockDTO `json:"negative_stock_items"`
	MovementsToday     int                `json:"movements_today"`
	DateLabel          string             `json:"date_label"` // YYYY-MM-DD en la zona de reportes
}

// NegativeStockDTO producto activo con saldo negativo.
type NegativeStockDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKUCode     *string         `json:"sku_code,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}
