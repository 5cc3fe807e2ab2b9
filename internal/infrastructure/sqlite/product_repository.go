package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.category_id, p.color_id, p.unit_id, p.size_label, p.sku_code, p.is_active, p.created_at`

const productDetailFrom = `
	JOIN categories c ON c.id = p.category_id
	JOIN colors co ON co.id = p.color_id
	JOIN units u ON u.id = p.unit_id`

const productDetailColumns = productColumns + `, c.name, co.name, co.hex_code, u.name`

type rowScanner interface {
	Scan(dest ...any) error
}

// ProductRepo productos sobre SQLite.
type ProductRepo struct {
	db DBTX
}

// NewProductRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewProductRepository(db DBTX) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, color_id, unit_id, size_label, sku_code, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CategoryID, p.ColorID, p.UnitID, p.SizeLabel, p.SKUCode, p.IsActive, formatTime(p.CreatedAt))
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
	var p entity.Product
	err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ?`, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetForUpdate en SQLite la transacción IMMEDIATE ya tiene el candado de escritura.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetDetail producto con nombres de catálogo.
func (r *ProductRepo) GetDetail(ctx context.Context, id string) (*repository.ProductDetail, error) {
	query := `SELECT ` + productDetailColumns + ` FROM products p` + productDetailFrom + ` WHERE p.id = ?`
	var d repository.ProductDetail
	if err := scanProductDetail(r.db.QueryRowContext(ctx, query, id), &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product detail: %w", err)
	}
	return &d, nil
}

// List productos con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*repository.ProductDetail, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productDetailColumns + ` FROM products p` + productDetailFrom + ` WHERE 1=1`)
	args := []any{}
	if f.ActiveOnly {
		sb.WriteString(" AND p.is_active = 1")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		sb.WriteString(` AND (instr(lower(c.name), lower(?)) > 0
			OR instr(lower(co.name), lower(?)) > 0
			OR instr(lower(p.size_label), lower(?)) > 0
			OR instr(lower(u.name), lower(?)) > 0
			OR instr(lower(COALESCE(p.sku_code, '')), lower(?)) > 0)`)
		args = append(args, s, s, s, s, s)
	}
	sb.WriteString(" ORDER BY c.name, co.name, p.size_label, p.id")
	if f.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*repository.ProductDetail
	for rows.Next() {
		var d repository.ProductDetail
		if err := scanProductDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListVariants productos con la misma categoría, color y unidad.
func (r *ProductRepo) ListVariants(ctx context.Context, categoryID, colorID, unitID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p
		WHERE p.category_id = ? AND p.color_id = ? AND p.unit_id = ?`
	rows, err := r.db.QueryContext(ctx, query, categoryID, colorID, unitID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza talla y estado activo.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET size_label = ?, is_active = ? WHERE id = ?`,
		p.SizeLabel, p.IsActive, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la variante ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func productDest(p *entity.Product) []any {
	return []any{
		&p.ID, &p.CategoryID, &p.ColorID, &p.UnitID, &p.SizeLabel, &p.SKUCode, &p.IsActive, scanTime(&p.CreatedAt),
	}
}

func productDetailDest(d *repository.ProductDetail) []any {
	return append(productDest(&d.Product), &d.CategoryName, &d.ColorName, &d.ColorHex, &d.UnitName)
}

func scanProduct(row rowScanner, p *entity.Product) error {
	return row.Scan(productDest(p)...)
}

func scanProductDetail(row rowScanner, d *repository.ProductDetail) error {
	return row.Scan(productDetailDest(d)...)
}
