// Package xlsx exporta el reporte diario como hoja de cálculo.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
)

var _ analytics.DailyReportRenderer = (*ReportRenderer)(nil)

// Nombres de las hojas del libro exportado.
const (
	SummarySheet   = "Resumen"
	MovementsSheet = "Movimientos"
)

// ReportRenderer implementa analytics.DailyReportRenderer con excelize.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// RenderDaily escribe el resumen y el detalle de movimientos en dos hojas.
// Las cantidades van como texto decimal exacto.
func (r *ReportRenderer) RenderDaily(report *dto.DailyReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	summary := [][]any{
		{"Fecha", report.Date},
		{"Zona horaria", report.Timezone},
		{"Entradas", report.In.Total.String(), report.In.Count},
		{"Salidas", report.Out.Total.String(), report.Out.Count},
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(MovementsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja movimientos: %w", err)
	}
	loc := location(report.Timezone)
	rows := make([][]any, 0, len(report.Movements)+1)
	rows = append(rows, []any{"Hora", "Producto", "SKU", "Dirección", "Cantidad", "Saldo", "Usuario", "Nota"})
	for _, mv := range report.Movements {
		sku := ""
		if mv.SKUCode != nil {
			sku = *mv.SKUCode
		}
		user := mv.EnteredByName
		if user == "" {
			user = mv.EnteredBy
		}
		rows = append(rows, []any{
			mv.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			mv.ProductName,
			sku,
			mv.Direction,
			mv.Quantity.String(),
			mv.BalanceAfter.String(),
			user,
			mv.Note,
		})
	}
	if err := writeRows(f, MovementsSheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(MovementsSheet, "B", "B", 40); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columna: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func location(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}
