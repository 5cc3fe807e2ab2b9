package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
)

// DailyReportRenderer genera un archivo a partir del reporte diario (PDF, XLSX).
type DailyReportRenderer interface {
	RenderDaily(report *dto.DailyReportDTO) ([]byte, error)
}

// ExportUseCase exporta el reporte diario en los formatos disponibles.
type ExportUseCase struct {
	reports *ReportUseCase
	pdf     DailyReportRenderer
	xlsx    DailyReportRenderer
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(reports *ReportUseCase, pdf, xlsx DailyReportRenderer) *ExportUseCase {
	return &ExportUseCase{reports: reports, pdf: pdf, xlsx: xlsx}
}

// ExportDailyPDF reporte diario en PDF.
func (uc *ExportUseCase) ExportDailyPDF(ctx context.Context, date string) (*dto.ReportFile, error) {
	return uc.export(ctx, date, uc.pdf, "pdf", "application/pdf")
}

// ExportDailyXLSX reporte diario en hoja de cálculo.
func (uc *ExportUseCase) ExportDailyXLSX(ctx context.Context, date string) (*dto.ReportFile, error) {
	return uc.export(ctx, date, uc.xlsx, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (uc *ExportUseCase) export(ctx context.Context, date string, r DailyReportRenderer, ext, contentType string) (*dto.ReportFile, error) {
	report, err := uc.reports.DailySummary(ctx, date)
	if err != nil {
		return nil, err
	}
	content, err := r.RenderDaily(report)
	if err != nil {
		return nil, fmt.Errorf("exportar reporte %s: %w", ext, err)
	}
	return &dto.ReportFile{
		Filename:    fmt.Sprintf("movimientos-%s.%s", report.Date, ext),
		ContentType: contentType,
		Content:     content,
	}, nil
}
