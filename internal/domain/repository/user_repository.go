package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListActive(ctx context.Context) ([]*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePinHash(ctx context.Context, id, pinHash string) error
}
