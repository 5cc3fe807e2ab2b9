package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
)

// UserHandler administración de usuarios (admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "name, pin, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetStatus godoc
// @Summary      Activar o desactivar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.SetUserStatusRequest  true  "is_active"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetUserStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.SetActive(c.UserContext(), c.Params("id"), *in.IsActive); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPin godoc
// @Summary      Cambiar PIN
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.ResetPinRequest  true  "pin"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/pin [put]
func (h *UserHandler) ResetPin(c *fiber.Ctx) error {
	var in dto.ResetPinRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ResetPin(c.UserContext(), c.Params("id"), in.Pin); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
