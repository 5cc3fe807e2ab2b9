package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
)

// CatalogHandler categorías, colores y unidades.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Get godoc
// @Summary      Catálogo completo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría (admin)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateColor godoc
// @Summary      Crear color (admin)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateColorRequest  true  "Nombre y hex opcional"
// @Success      201   {object}  dto.ColorDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/colors [post]
func (h *CatalogHandler) CreateColor(c *fiber.Ctx) error {
	var in dto.CreateColorRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateColor(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateUnit godoc
// @Summary      Crear unidad (admin)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Nombre"
// @Success      201   {object}  dto.UnitDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/catalog/units [post]
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateUnit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
