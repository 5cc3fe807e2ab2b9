package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura del libro sobre SQLite.
type ReportRepo struct {
	db DBTX
}

// NewReportRepository construye el repositorio de reportes.
func NewReportRepository(db DBTX) *ReportRepo {
	return &ReportRepo{db: db}
}

// ListMovements movimientos con producto y usuario, según filtro.
// Los filtros numéricos se aplican en Go porque las cantidades se guardan como TEXT.
func (r *ReportRepo) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*repository.MovementDetail, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.id, m.product_id, m.direction, m.quantity, m.balance_after, COALESCE(m.note, ''),
		       m.entered_by, m.idempotency_key, m.created_at, COALESCE(us.name, ''), ` + productDetailColumns + `
		FROM movements m
		JOIN products p ON p.id = m.product_id` + productDetailFrom + `
		LEFT JOIN users us ON us.id = m.entered_by
		WHERE 1=1`)
	args := []any{}
	if f.ProductID != "" {
		sb.WriteString(" AND m.product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.EnteredBy != "" {
		sb.WriteString(" AND m.entered_by = ?")
		args = append(args, f.EnteredBy)
	}
	if f.Direction != "" {
		sb.WriteString(" AND m.direction = ?")
		args = append(args, f.Direction)
	}
	if f.From != nil {
		sb.WriteString(" AND m.created_at >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		sb.WriteString(" AND m.created_at < ?")
		args = append(args, formatTime(*f.To))
	}
	if f.Ascending {
		sb.WriteString(" ORDER BY m.created_at ASC, m.id ASC")
	} else {
		sb.WriteString(" ORDER BY m.created_at DESC, m.id DESC")
	}
	filterInGo := f.MinQuantity != nil || f.NegativeBalanceOnly
	if f.Limit > 0 && !filterInGo {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*repository.MovementDetail
	for rows.Next() {
		var d repository.MovementDetail
		dest := []any{
			&d.ID, &d.ProductID, &d.Direction, &d.Quantity, &d.BalanceAfter, &d.Note,
			&d.EnteredBy, &d.IdempotencyKey, scanTime(&d.CreatedAt), &d.EnteredByName,
		}
		if err := rows.Scan(append(dest, productDetailDest(&d.Product)...)...); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if f.MinQuantity != nil && !d.Quantity.GreaterThan(*f.MinQuantity) {
			continue
		}
		if f.NegativeBalanceOnly && !d.BalanceAfter.IsNegative() {
			continue
		}
		list = append(list, &d)
		if f.Limit > 0 && len(list) == f.Limit {
			break
		}
	}
	return list, rows.Err()
}

// DirectionTotals total y conteo por dirección en [from, to).
func (r *ReportRepo) DirectionTotals(ctx context.Context, from, to time.Time) ([]repository.DirectionTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT direction, quantity FROM movements WHERE created_at >= ? AND created_at < ? ORDER BY direction`,
		formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("direction totals: %w", err)
	}
	defer rows.Close()

	var out []repository.DirectionTotal
	for rows.Next() {
		var direction string
		var qty decimal.Decimal
		if err := rows.Scan(&direction, &qty); err != nil {
			return nil, fmt.Errorf("scan direction total: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].Direction != direction {
			out = append(out, repository.DirectionTotal{Direction: direction, Total: decimal.Zero})
		}
		t := &out[len(out)-1]
		t.Total = t.Total.Add(qty)
		t.Count++
	}
	return out, rows.Err()
}

// CountMovements cantidad de movimientos en [from, to).
func (r *ReportRepo) CountMovements(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements WHERE created_at >= ? AND created_at < ?`,
		formatTime(from), formatTime(to)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
