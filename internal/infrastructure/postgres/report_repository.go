package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura del libro sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el repositorio de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListMovements movimientos con producto y usuario, según filtro.
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
	pos := 1
	add := func(cond string, v any) {
		fmt.Fprintf(&sb, " AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add("m.product_id = $%d", f.ProductID)
	}
	if f.EnteredBy != "" {
		add("m.entered_by = $%d", f.EnteredBy)
	}
	if f.Direction != "" {
		add("m.direction = $%d", f.Direction)
	}
	if f.From != nil {
		add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.created_at < $%d", *f.To)
	}
	if f.MinQuantity != nil {
		add("m.quantity > $%d", *f.MinQuantity)
	}
	if f.NegativeBalanceOnly {
		sb.WriteString(" AND m.balance_after < 0")
	}
	if f.Ascending {
		sb.WriteString(" ORDER BY m.created_at ASC, m.id ASC")
	} else {
		sb.WriteString(" ORDER BY m.created_at DESC, m.id DESC")
	}
	if f.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", pos)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*repository.MovementDetail
	for rows.Next() {
		var d repository.MovementDetail
		p := &d.Product
		if err := rows.Scan(
			&d.ID, &d.ProductID, &d.Direction, &d.Quantity, &d.BalanceAfter, &d.Note,
			&d.EnteredBy, &d.IdempotencyKey, &d.CreatedAt, &d.EnteredByName,
			&p.ID, &p.CategoryID, &p.ColorID, &p.UnitID, &p.SizeLabel, &p.SKUCode, &p.IsActive, &p.CreatedAt,
			&p.CategoryName, &p.ColorName, &p.ColorHex, &p.UnitName,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// DirectionTotals total y conteo por dirección en [from, to).
func (r *ReportRepo) DirectionTotals(ctx context.Context, from, to time.Time) ([]repository.DirectionTotal, error) {
	query := `
		SELECT direction, COALESCE(SUM(quantity), 0), COUNT(*)
		FROM movements
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY direction
		ORDER BY direction`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("direction totals: %w", err)
	}
	defer rows.Close()

	var out []repository.DirectionTotal
	for rows.Next() {
		var t repository.DirectionTotal
		if err := rows.Scan(&t.Direction, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("scan direction total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountMovements cantidad de movimientos en [from, to).
func (r *ReportRepo) CountMovements(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
