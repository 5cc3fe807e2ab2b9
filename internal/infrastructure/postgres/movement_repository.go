package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// signedQuantity expresión SQL de la cantidad con signo.
const signedQuantity = `CASE WHEN direction = 'in' THEN quantity ELSE -quantity END`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento. La clave de idempotencia repetida se reporta como ErrDuplicateSubmission.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, direction, quantity, balance_after, note, entered_by, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Direction, m.Quantity, m.BalanceAfter, nullable(m.Note),
		m.EnteredBy, m.IdempotencyKey, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT id, product_id, direction, quantity, balance_after, COALESCE(note, ''), entered_by, idempotency_key, created_at
		FROM movements WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.BalanceAfter, &m.Note,
		&m.EnteredBy, &m.IdempotencyKey, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ExistsByIdempotencyKey indica si la clave ya fue usada.
func (r *MovementRepo) ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movements WHERE idempotency_key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check idempotency key: %w", err)
	}
	return exists, nil
}

// HasNotePrefix prefijo exacto de la nota (sin comodines LIKE).
func (r *MovementRepo) HasNotePrefix(ctx context.Context, productID, prefix string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM movements
			WHERE product_id = $1 AND left(note, length($2)) = $2
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID, prefix).Scan(&exists); err != nil {
		return false, fmt.Errorf("check note prefix: %w", err)
	}
	return exists, nil
}

// BalanceOf suma con signo de los movimientos del producto (NUMERIC exacto).
func (r *MovementRepo) BalanceOf(ctx context.Context, productID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(` + signedQuantity + `), 0) FROM movements WHERE product_id = $1`
	var b decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID).Scan(&b); err != nil {
		return decimal.Zero, fmt.Errorf("sum balance: %w", err)
	}
	return b, nil
}

// BalanceMap saldos agrupados por producto.
func (r *MovementRepo) BalanceMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	query := `SELECT product_id, SUM(` + signedQuantity + `) FROM movements`
	args := []any{}
	if len(productIDs) > 0 {
		query += ` WHERE product_id = ANY($1)`
		args = append(args, productIDs)
	}
	query += ` GROUP BY product_id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("balance map: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var b decimal.Decimal
		if err := rows.Scan(&id, &b); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out[id] = b
	}
	return out, rows.Err()
}
