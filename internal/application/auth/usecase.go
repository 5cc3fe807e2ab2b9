package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login por PIN.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// LoginWithPin compara el PIN contra los usuarios activos y emite un JWT para el primero que coincide.
func (uc *AuthUseCase) LoginWithPin(ctx context.Context, pin string) (*dto.LoginResponse, error) {
	if !entity.ValidPin(pin) {
		return nil, domain.ErrUnauthorized
	}
	user, err := FindActiveByPin(ctx, uc.userRepo, pin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: ToUserResponse(user)}, nil
}

// FindActiveByPin usuario activo cuyo hash coincide con pin; nil si ninguno.
func FindActiveByPin(ctx context.Context, repo repository.UserRepository, pin string) (*entity.User, error) {
	users, err := repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios activos: %w", err)
	}
	for _, u := range users {
		if bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)) == nil {
			return u, nil
		}
	}
	return nil, nil
}

// ToUserResponse salida pública de un usuario.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
