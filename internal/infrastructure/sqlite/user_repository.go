package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, pin_hash, role, is_active, created_at`

// UserRepo usuarios sobre SQLite.
type UserRepo struct {
	db DBTX
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, pin_hash, role, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.PinHash, u.Role, u.IsActive, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id).Scan(userDest(&u)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List todos los usuarios por nombre.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, id`)
}

// ListActive usuarios activos.
func (r *UserRepo) ListActive(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE is_active = 1 ORDER BY name, id`)
}

func (r *UserRepo) list(ctx context.Context, query string) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(userDest(&u)...); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva un usuario.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, id)
}

// UpdatePinHash reemplaza el hash del PIN.
func (r *UserRepo) UpdatePinHash(ctx context.Context, id, pinHash string) error {
	return r.update(ctx, `UPDATE users SET pin_hash = ? WHERE id = ?`, pinHash, id)
}

func (r *UserRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func userDest(u *entity.User) []any {
	return []any{&u.ID, &u.Name, &u.PinHash, &u.Role, &u.IsActive, scanTime(&u.CreatedAt)}
}
