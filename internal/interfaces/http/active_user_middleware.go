package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// userLookup es el contrato mínimo que necesita el middleware; lo implementa repository.UserRepository.
type userLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo, así
// desactivar a alguien corta su sesión sin esperar a que expire el JWT.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → usuario inexistente o desactivado.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireActiveUser(users userLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := users.GetByID(c.UserContext(), GetUserID(c))
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}
		if user == nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "el usuario no existe o está desactivado",
			})
		}
		return c.Next()
	}
}
