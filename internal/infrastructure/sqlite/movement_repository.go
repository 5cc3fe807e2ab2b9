package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre SQLite. Solo inserta.
type MovementRepo struct {
	db DBTX
}

// NewMovementRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewMovementRepository(db DBTX) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create agrega un movimiento. La clave repetida se reporta como ErrDuplicateSubmission.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, direction, quantity, balance_after, note, entered_by, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ProductID, m.Direction, m.Quantity.String(), m.BalanceAfter.String(), nullable(m.Note),
		m.EnteredBy, m.IdempotencyKey, formatTime(m.CreatedAt),
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
		FROM movements WHERE id = ?`
	var m entity.Movement
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.BalanceAfter, &m.Note,
		&m.EnteredBy, &m.IdempotencyKey, scanTime(&m.CreatedAt),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ExistsByIdempotencyKey indica si la clave ya fue usada.
func (r *MovementRepo) ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM movements WHERE idempotency_key = ?)`, key).Scan(&exists)
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
			WHERE product_id = ? AND substr(note, 1, length(?)) = ?
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, productID, prefix, prefix).Scan(&exists); err != nil {
		return false, fmt.Errorf("check note prefix: %w", err)
	}
	return exists, nil
}

// BalanceOf suma con signo de los movimientos del producto.
func (r *MovementRepo) BalanceOf(ctx context.Context, productID string) (decimal.Decimal, error) {
	m, err := r.fold(ctx, `SELECT product_id, direction, quantity FROM movements WHERE product_id = ?`, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum balance: %w", err)
	}
	return m.Of(productID), nil
}

// BalanceMap saldos agrupados por producto.
func (r *MovementRepo) BalanceMap(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	query := `SELECT product_id, direction, quantity FROM movements`
	args := make([]any, 0, len(productIDs))
	if len(productIDs) > 0 {
		query += ` WHERE product_id IN (` + placeholders(len(productIDs)) + `)`
		for _, id := range productIDs {
			args = append(args, id)
		}
	}
	m, err := r.fold(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("balance map: %w", err)
	}
	return m, nil
}

// fold suma en Go; SQLite no tiene aritmética decimal exacta.
func (r *MovementRepo) fold(ctx context.Context, query string, args ...any) (ledger.BalanceMap, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := ledger.BalanceMap{}
	for rows.Next() {
		var id, direction string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &direction, &qty); err != nil {
			return nil, err
		}
		out.Add(id, direction, qty)
	}
	return out, rows.Err()
}
