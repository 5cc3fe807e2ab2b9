package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo auditoría de ajustes sobre PostgreSQL. Solo inserta.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el registro de auditoría.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, product_id, old_balance, new_balance, reason, adjusted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.OldBalance, a.NewBalance, a.Reason, a.AdjustedBy, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// List ajustes más recientes primero, con producto y usuario.
func (r *AdjustmentRepo) List(ctx context.Context, limit, offset int) ([]*repository.AdjustmentDetail, error) {
	query := `
		SELECT a.id, a.product_id, a.old_balance, a.new_balance, a.reason, a.adjusted_by, a.created_at,
		       COALESCE(us.name, ''), ` + productDetailColumns + `
		FROM stock_adjustments a
		JOIN products p ON p.id = a.product_id` + productDetailFrom + `
		LEFT JOIN users us ON us.id = a.adjusted_by
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()

	var list []*repository.AdjustmentDetail
	for rows.Next() {
		var d repository.AdjustmentDetail
		p := &d.Product
		if err := rows.Scan(
			&d.ID, &d.ProductID, &d.OldBalance, &d.NewBalance, &d.Reason, &d.AdjustedBy, &d.CreatedAt,
			&d.AdjustedByName,
			&p.ID, &p.CategoryID, &p.ColorID, &p.UnitID, &p.SizeLabel, &p.SKUCode, &p.IsActive, &p.CreatedAt,
			&p.CategoryName, &p.ColorName, &p.ColorHex, &p.UnitName,
		); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
