package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
)

// ReportHandler reportes de solo lectura del libro (admin).
type ReportHandler struct {
	reports *appanalytics.ReportUseCase
	export  *appanalytics.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *appanalytics.ReportUseCase, export *appanalytics.ExportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, export: export}
}

// Daily godoc
// @Summary      Resumen diario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD; vacío = hoy"
// @Success      200   {object}  dto.DailyReportDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	out, err := h.reports.DailySummary(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DailyPDF godoc
// @Summary      Resumen diario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        date  query  string  false  "YYYY-MM-DD; vacío = hoy"
// @Success      200
// @Router       /api/reports/daily.pdf [get]
func (h *ReportHandler) DailyPDF(c *fiber.Ctx) error {
	file, err := h.export.ExportDailyPDF(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// DailyXLSX godoc
// @Summary      Resumen diario en hoja de cálculo
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        date  query  string  false  "YYYY-MM-DD; vacío = hoy"
// @Success      200
// @Router       /api/reports/daily.xlsx [get]
func (h *ReportHandler) DailyXLSX(c *fiber.Ctx) error {
	file, err := h.export.ExportDailyXLSX(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// LargeDispatches godoc
// @Summary      Salidas grandes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200    {array}  dto.MovementDTO
// @Router       /api/reports/large-dispatches [get]
func (h *ReportHandler) LargeDispatches(c *fiber.Ctx) error {
	out, err := h.reports.LargeDispatches(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Anomalies godoc
// @Summary      Movimientos que dejaron saldo negativo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(50)
// @Success      200    {array}  dto.MovementDTO
// @Router       /api/reports/anomalies [get]
func (h *ReportHandler) Anomalies(c *fiber.Ctx) error {
	out, err := h.reports.NegativeBalanceAnomalies(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NegativeStock godoc
// @Summary      Productos activos con saldo negativo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NegativeStockDTO
// @Router       /api/reports/negative-stock [get]
func (h *ReportHandler) NegativeStock(c *fiber.Ctx) error {
	out, err := h.reports.NegativeStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func sendFile(c *fiber.Ctx, file *dto.ReportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}
