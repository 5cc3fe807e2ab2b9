package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Bodega-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve SKUs activos, unidades en stock, saldos negativos y movimientos de hoy.
// GET /api/dashboard
//
// "Hoy" se calcula en la zona horaria de reportes del servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
