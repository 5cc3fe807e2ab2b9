package dto

import "github.com/shopspring/decimal"

// DirectionTotalDTO total y cantidad de movimientos de una dirección.
type DirectionTotalDTO struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// DailyReportDTO resumen diario del libro en la zona horaria de reportes.
type DailyReportDTO struct {
	Date      string            `json:"date"` // YYYY-MM-DD
	Timezone  string            `json:"timezone"`
	In        DirectionTotalDTO `json:"in"`
	Out       DirectionTotalDTO `json:"out"`
	Movements []MovementDTO     `json:"movements"`
}

// ReportFile archivo exportado.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
