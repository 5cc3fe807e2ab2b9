package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productColumns columnas de products (alias p).
const productColumns = `p.id, p.category_id, p.color_id, p.unit_id, p.size_label, p.sku_code, p.is_active, p.created_at`

// productDetailFrom joins con el catálogo; se usa en productos, movimientos y ajustes.
const productDetailFrom = `
	JOIN categories c ON c.id = p.category_id
	JOIN colors co ON co.id = p.color_id
	JOIN units u ON u.id = p.unit_id`

const productDetailColumns = productColumns + `, c.name, co.name, co.hex_code, u.name`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, color_id, unit_id, size_label, sku_code, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CategoryID, p.ColorID, p.UnitID, p.SizeLabel, p.SKUCode, p.IsActive, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la variante o el SKU ya existen", domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría, color o unidad inexistente", domain.ErrValidation)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CategoryID, &p.ColorID, &p.UnitID, &p.SizeLabel, &p.SKUCode, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetDetail producto con nombres de catálogo.
func (r *ProductRepo) GetDetail(ctx context.Context, id string) (*repository.ProductDetail, error) {
	query := `SELECT ` + productDetailColumns + ` FROM products p` + productDetailFrom + ` WHERE p.id = $1`
	d, err := scanProductDetail(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product detail: %w", err)
	}
	return d, nil
}

// List productos con filtros opcionales, ordenados por categoría, color y talla.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*repository.ProductDetail, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productDetailColumns + ` FROM products p` + productDetailFrom + ` WHERE 1=1`)
	args := []any{}
	pos := 1
	if f.ActiveOnly {
		sb.WriteString(" AND p.is_active")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		fmt.Fprintf(&sb, ` AND (strpos(lower(c.name), lower($%[1]d)) > 0
			OR strpos(lower(co.name), lower($%[1]d)) > 0
			OR strpos(lower(p.size_label), lower($%[1]d)) > 0
			OR strpos(lower(u.name), lower($%[1]d)) > 0
			OR strpos(lower(COALESCE(p.sku_code, '')), lower($%[1]d)) > 0)`, pos)
		args = append(args, s)
		pos++
	}
	sb.WriteString(" ORDER BY c.name, co.name, p.size_label, p.id")
	if f.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", pos)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*repository.ProductDetail
	for rows.Next() {
		d, err := scanProductDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListVariants productos con la misma categoría, color y unidad.
func (r *ProductRepo) ListVariants(ctx context.Context, categoryID, colorID, unitID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p
		WHERE p.category_id = $1 AND p.color_id = $2 AND p.unit_id = $3`
	rows, err := r.q.Query(ctx, query, categoryID, colorID, unitID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.ColorID, &p.UnitID, &p.SizeLabel, &p.SKUCode, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza talla y estado activo.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET size_label = $2, is_active = $3 WHERE id = $1`,
		p.ID, p.SizeLabel, p.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la variante ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanProductDetail lee las columnas de productDetailColumns.
func scanProductDetail(row pgx.Row) (*repository.ProductDetail, error) {
	var d repository.ProductDetail
	err := row.Scan(
		&d.ID, &d.CategoryID, &d.ColorID, &d.UnitID, &d.SizeLabel, &d.SKUCode, &d.IsActive, &d.CreatedAt,
		&d.CategoryName, &d.ColorName, &d.ColorHex, &d.UnitName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
