package inventory

import (
	"context"
	"errors"
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

// RecordMovementInput entrada para registrar una entrada o salida.
type RecordMovementInput struct {
	ProductID      string
	Direction      string // in | out
	Quantity       decimal.Decimal
	Note           string
	EnteredBy      string
	IdempotencyKey string
}

// RecordMovementResult saldo antes y después del movimiento registrado.
type RecordMovementResult struct {
	MovementID      string
	BalanceAfter    decimal.Decimal
	PreviousBalance decimal.Decimal
	LargeDispatch   bool
}

// RecordMovementUseCase registra movimientos en el libro de forma transaccional,
// con la fila del producto bloqueada mientras se valida el saldo.
type RecordMovementUseCase struct {
	txRunner               TxRunner
	metrics                Metrics
	log                    zerolog.Logger
	largeDispatchThreshold decimal.Decimal
	now                    func() time.Time
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	metrics Metrics,
	log zerolog.Logger,
	largeDispatchThreshold decimal.Decimal,
) *RecordMovementUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &RecordMovementUseCase{
		txRunner:               txRunner,
		metrics:                metrics,
		log:                    log,
		largeDispatchThreshold: largeDispatchThreshold,
		now:                    time.Now,
	}
}

// RecordMovement valida y agrega un movimiento. Dentro de una sola transacción:
// bloquea el producto, verifica que esté activo, que la clave no se haya usado y,
// para salidas, que el saldo alcance. Las salidas grandes se marcan, nunca se rechazan.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, in RecordMovementInput) (*RecordMovementResult, error) {
	if err := validateRecordInput(in); err != nil {
		uc.metrics.MovementRejected(RejectionReason(err))
		return nil, err
	}

	var result *RecordMovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.IsActive {
			return domain.ErrInactiveProduct
		}

		used, err := movRepo.ExistsByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrDuplicateSubmission
		}

		previous, err := NewBalanceResolver(movRepo).BalanceOf(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.Direction == entity.DirectionOut {
			if err := ledger.CheckDispatch(previous, in.Quantity); err != nil {
				return err
			}
		}

		mov := &entity.Movement{
			ID:             uuid.Must(uuid.NewV7()).String(),
			ProductID:      in.ProductID,
			Direction:      in.Direction,
			Quantity:       in.Quantity,
			BalanceAfter:   ledger.Next(previous, in.Direction, in.Quantity),
			Note:           strings.TrimSpace(in.Note),
			EnteredBy:      in.EnteredBy,
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      uc.now().UTC(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result = &RecordMovementResult{
			MovementID:      mov.ID,
			BalanceAfter:    mov.BalanceAfter,
			PreviousBalance: previous,
		}
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected(RejectionReason(err))
		return nil, err
	}

	uc.metrics.MovementRecorded(in.Direction)
	if ledger.IsLargeDispatch(in.Direction, in.Quantity, uc.largeDispatchThreshold) {
		result.LargeDispatch = true
		uc.metrics.LargeDispatchFlagged()
		uc.log.Warn().
			Str("product_id", in.ProductID).
			Str("movement_id", result.MovementID).
			Str("quantity", in.Quantity.String()).
			Str("entered_by", in.EnteredBy).
			Msg("salida grande registrada; requiere revisión del administrador")
	}
	return result, nil
}

func validateRecordInput(in RecordMovementInput) error {
	if !ledger.ValidDirection(in.Direction) {
		return fmt.Errorf("%w: dirección %q no soportada", domain.ErrValidation, in.Direction)
	}
	if in.ProductID == "" || in.EnteredBy == "" {
		return fmt.Errorf("%w: producto y usuario son obligatorios", domain.ErrValidation)
	}
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return fmt.Errorf("%w: falta la clave de idempotencia", domain.ErrValidation)
	}
	return nil
}

// RejectionReason etiqueta corta del motivo de rechazo (para métricas y logs).
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInactiveProduct):
		return "inactive_product"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return "duplicate_submission"
	case errors.Is(err, domain.ErrStockInDeficit):
		return "stock_in_deficit"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "store_error"
	}
}
