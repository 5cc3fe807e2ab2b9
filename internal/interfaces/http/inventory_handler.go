package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
)

// InventoryHandler maneja las escrituras del libro: movimientos, deshacer y ajustes.
type InventoryHandler struct {
	record  *inventory.RecordMovementUseCase
	undo    *inventory.UndoMovementUseCase
	adjust  *inventory.AdjustBalanceUseCase
	reports *analytics.ReportUseCase
	cache   ports.ViewCache
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	record *inventory.RecordMovementUseCase,
	undo *inventory.UndoMovementUseCase,
	adjust *inventory.AdjustBalanceUseCase,
	reports *analytics.ReportUseCase,
	cache ports.ViewCache,
) *InventoryHandler {
	return &InventoryHandler{record: record, undo: undo, adjust: adjust, reports: reports, cache: cache}
}

// RecordMovement godoc
// @Summary      Registrar entrada o salida
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, direction (in|out), quantity, note, idempotency_key"
// @Success      201   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.record.RecordMovement(c.UserContext(), inventory.RecordMovementInput{
		ProductID:      in.ProductID,
		Direction:      in.Direction,
		Quantity:       in.Quantity,
		Note:           in.Note,
		EnteredBy:      GetUserID(c),
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return writeError(c, err)
	}
	invalidateStockViews(c.UserContext(), h.cache)
	return c.Status(fiber.StatusCreated).JSON(dto.RecordMovementResponse{
		MovementID:      res.MovementID,
		PreviousBalance: res.PreviousBalance,
		BalanceAfter:    res.BalanceAfter,
		LargeDispatch:   res.LargeDispatch,
	})
}

// Recent godoc
// @Summary      Últimos movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int   false  "Límite"  default(10)
// @Param        mine   query  bool  false  "Solo los del usuario autenticado"
// @Success      200    {array}  dto.MovementDTO
// @Router       /api/movements/recent [get]
func (h *InventoryHandler) Recent(c *fiber.Ctx) error {
	enteredBy := ""
	if c.QueryBool("mine", false) {
		enteredBy = GetUserID(c)
	}
	out, err := h.reports.RecentMovements(c.UserContext(), enteredBy, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Undo godoc
// @Summary      Deshacer un movimiento
// @Description  Agrega el movimiento opuesto. Si no aplica (ya deshecho, sin permiso, sin stock) no hace nada.
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/undo [post]
func (h *InventoryHandler) Undo(c *fiber.Ctx) error {
	if err := h.undo.UndoMovement(c.UserContext(), c.Params("id"), actor(c)); err != nil {
		return writeError(c, err)
	}
	invalidateStockViews(c.UserContext(), h.cache)
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajustar saldo (admin)
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustBalanceRequest  true  "product_id, new_balance, reason"
// @Success      201   {object}  dto.AdjustBalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustBalanceRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.adjust.AdjustBalance(c.UserContext(), inventory.AdjustBalanceInput{
		ProductID:  in.ProductID,
		NewBalance: *in.NewBalance,
		Reason:     in.Reason,
		AdjustedBy: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	invalidateStockViews(c.UserContext(), h.cache)
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustBalanceResponse{
		AdjustmentID: res.AdjustmentID,
		OldBalance:   res.OldBalance,
		NewBalance:   res.NewBalance,
		MovementID:   res.MovementID,
	})
}

// ListAdjustments godoc
// @Summary      Auditoría de ajustes (admin)
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.AdjustmentListResponse
// @Router       /api/adjustments [get]
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return writeError(c, err)
	}
	page.Normalize()
	list, err := h.adjust.ListAdjustments(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.AdjustmentDTO, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAdjustmentDTO(a))
	}
	return c.JSON(dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	})
}

// invalidateStockViews descarta las vistas cacheadas tras una escritura.
// Un fallo solo se registra: la vista expira por TTL.
func invalidateStockViews(ctx context.Context, cache ports.ViewCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, ports.StockViews...); err != nil {
		log.Warn().Err(err).Msg("invalidar vistas de stock")
	}
}
