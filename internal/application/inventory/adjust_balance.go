package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// AdjustBalanceInput corrección de saldo pedida por un administrador.
type AdjustBalanceInput struct {
	ProductID  string
	NewBalance decimal.Decimal // puede ser negativo
	Reason     string
	AdjustedBy string
}

// AdjustBalanceResult resultado del ajuste.
type AdjustBalanceResult struct {
	AdjustmentID string
	OldBalance   decimal.Decimal
	NewBalance   decimal.Decimal
	MovementID   string // vacío si el saldo no cambió
}

// AdjustBalanceUseCase fija el saldo de un producto dejando auditoría y un movimiento correctivo.
type AdjustBalanceUseCase struct {
	txRunner TxRunner
	adjRepo  repository.AdjustmentRepository
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewAdjustBalanceUseCase construye el caso de uso. adjRepo (atado al pool) solo se usa para listar.
func NewAdjustBalanceUseCase(
	txRunner TxRunner,
	adjRepo repository.AdjustmentRepository,
	metrics Metrics,
	log zerolog.Logger,
) *AdjustBalanceUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &AdjustBalanceUseCase{txRunner: txRunner, adjRepo: adjRepo, metrics: metrics, log: log, now: time.Now}
}

// AdjustBalance registra la auditoría y, si el saldo cambia, un único movimiento correctivo
// con balance_after = NewBalance. Todo en una transacción con el producto bloqueado.
// Los productos inactivos también se pueden ajustar.
func (uc *AdjustBalanceUseCase) AdjustBalance(ctx context.Context, in AdjustBalanceInput) (*AdjustBalanceResult, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo del ajuste es obligatorio", domain.ErrValidation)
	}
	if in.ProductID == "" || in.AdjustedBy == "" {
		return nil, fmt.Errorf("%w: producto y usuario son obligatorios", domain.ErrValidation)
	}

	var result *AdjustBalanceResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		adjRepo repository.AdjustmentRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		old, err := NewBalanceResolver(movRepo).BalanceOf(ctx, in.ProductID)
		if err != nil {
			return err
		}

		now := uc.now().UTC()
		adj := &entity.StockAdjustment{
			ID:         uuid.Must(uuid.NewV7()).String(),
			ProductID:  in.ProductID,
			OldBalance: old,
			NewBalance: in.NewBalance,
			Reason:     reason,
			AdjustedBy: in.AdjustedBy,
			CreatedAt:  now,
		}
		if err := adjRepo.Create(ctx, adj); err != nil {
			return err
		}
		result = &AdjustBalanceResult{AdjustmentID: adj.ID, OldBalance: old, NewBalance: in.NewBalance}

		diff := in.NewBalance.Sub(old)
		if diff.IsZero() {
			return nil
		}
		direction := entity.DirectionIn
		if diff.IsNegative() {
			direction = entity.DirectionOut
		}
		mov := &entity.Movement{
			ID:             uuid.Must(uuid.NewV7()).String(),
			ProductID:      in.ProductID,
			Direction:      direction,
			Quantity:       diff.Abs(),
			BalanceAfter:   in.NewBalance,
			Note:           ledger.AdjustmentNote(reason),
			EnteredBy:      in.AdjustedBy,
			IdempotencyKey: ledger.AdjustmentIdempotencyKey(adj.ID),
			CreatedAt:      now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result.MovementID = mov.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.AdjustmentRecorded(result.MovementID != "")
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("adjustment_id", result.AdjustmentID).
		Str("old_balance", result.OldBalance.String()).
		Str("new_balance", result.NewBalance.String()).
		Str("adjusted_by", in.AdjustedBy).
		Msg("ajuste de stock registrado")
	return result, nil
}

// ListAdjustments auditoría de ajustes, más recientes primero.
func (uc *AdjustBalanceUseCase) ListAdjustments(ctx context.Context, limit, offset int) ([]*repository.AdjustmentDetail, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.adjRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar ajustes: %w", err)
	}
	return list, nil
}
