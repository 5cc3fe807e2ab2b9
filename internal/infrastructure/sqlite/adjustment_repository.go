package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo auditoría de ajustes sobre SQLite. Solo inserta.
type AdjustmentRepo struct {
	db DBTX
}

// NewAdjustmentRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewAdjustmentRepository(db DBTX) *AdjustmentRepo {
	return &AdjustmentRepo{db: db}
}

// Create persiste el registro de auditoría.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, product_id, old_balance, new_balance, reason, adjusted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		a.ID, a.ProductID, a.OldBalance.String(), a.NewBalance.String(), a.Reason, a.AdjustedBy, formatTime(a.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// List ajustes más recientes primero.
func (r *AdjustmentRepo) List(ctx context.Context, limit, offset int) ([]*repository.AdjustmentDetail, error) {
	query := `
		SELECT a.id, a.product_id, a.old_balance, a.new_balance, a.reason, a.adjusted_by, a.created_at,
		       COALESCE(us.name, ''), ` + productDetailColumns + `
		FROM stock_adjustments a
		JOIN products p ON p.id = a.product_id` + productDetailFrom + `
		LEFT JOIN users us ON us.id = a.adjusted_by
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()

	var list []*repository.AdjustmentDetail
	for rows.Next() {
		var d repository.AdjustmentDetail
		dest := []any{
			&d.ID, &d.ProductID, &d.OldBalance, &d.NewBalance, &d.Reason, &d.AdjustedBy, scanTime(&d.CreatedAt),
			&d.AdjustedByName,
		}
		if err := rows.Scan(append(dest, productDetailDest(&d.Product)...)...); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
