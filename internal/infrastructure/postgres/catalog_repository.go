package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo categorías, colores y unidades sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListCategories categorías por nombre.
func (r *CatalogRepo) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ListColors colores por nombre.
func (r *CatalogRepo) ListColors(ctx context.Context) ([]*entity.Color, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, hex_code FROM colors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()

	var list []*entity.Color
	for rows.Next() {
		var c entity.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.HexCode); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ListUnits unidades por nombre.
func (r *CatalogRepo) ListUnits(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// CreateCategory persiste una categoría; el nombre es único sin distinguir mayúsculas.
func (r *CatalogRepo) CreateCategory(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	return catalogInsertErr("category", err)
}

// CreateColor persiste un color.
func (r *CatalogRepo) CreateColor(ctx context.Context, c *entity.Color) error {
	_, err := r.q.Exec(ctx, `INSERT INTO colors (id, name, hex_code) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.HexCode)
	return catalogInsertErr("color", err)
}

// CreateUnit persiste una unidad.
func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `INSERT INTO units (id, name) VALUES ($1, $2)`, u.ID, u.Name)
	return catalogInsertErr("unit", err)
}

func catalogInsertErr(kind string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return fmt.Errorf("insert %s: %w", kind, err)
}
