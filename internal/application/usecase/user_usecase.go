package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	cost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// List todos los usuarios, activos e inactivos.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// Create crea un usuario con PIN de 4 dígitos. El PIN no puede coincidir con el de otro usuario activo.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrValidation, in.Role)
	}
	hash, err := uc.hashUniquePin(ctx, in.Pin, "")
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		PinHash:   hash,
		Role:      in.Role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// SetActive activa o desactiva un usuario.
func (uc *UserUseCase) SetActive(ctx context.Context, id string, active bool) error {
	if err := uc.ensureExists(ctx, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, active)
}

// ResetPin reemplaza el PIN de un usuario.
func (uc *UserUseCase) ResetPin(ctx context.Context, id, pin string) error {
	if err := uc.ensureExists(ctx, id); err != nil {
		return err
	}
	hash, err := uc.hashUniquePin(ctx, pin, id)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePinHash(ctx, id, hash)
}

func (uc *UserUseCase) ensureExists(ctx context.Context, id string) error {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return nil
}

// hashUniquePin valida formato y unicidad (ignorando exceptID) y devuelve el hash bcrypt.
func (uc *UserUseCase) hashUniquePin(ctx context.Context, pin, exceptID string) (string, error) {
	if !entity.ValidPin(pin) {
		return "", fmt.Errorf("%w: el PIN debe tener 4 dígitos", domain.ErrValidation)
	}
	owner, err := auth.FindActiveByPin(ctx, uc.repo, pin)
	if err != nil {
		return "", err
	}
	if owner != nil && owner.ID != exceptID {
		return "", fmt.Errorf("%w: el PIN ya está en uso", domain.ErrDuplicate)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), uc.cost)
	if err != nil {
		return "", fmt.Errorf("hash de PIN: %w", err)
	}
	return string(hash), nil
}
