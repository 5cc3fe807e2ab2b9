package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Resultados de un intento de deshacer.
const (
	UndoApplied         = "applied"
	UndoSkipNotFound    = "not_found"
	UndoSkipNotAllowed  = "not_allowed"
	UndoSkipIsUndo      = "is_undo"
	UndoSkipAlreadyDone = "already_undone"
	UndoSkipNoStock     = "insufficient_stock"
)

// UndoMovementUseCase revierte un movimiento agregando su compensatorio.
// Nunca modifica ni borra el movimiento original.
type UndoMovementUseCase struct {
	txRunner TxRunner
	metrics  Metrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewUndoMovementUseCase construye el caso de uso.
func NewUndoMovementUseCase(txRunner TxRunner, metrics Metrics, log zerolog.Logger) *UndoMovementUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &UndoMovementUseCase{txRunner: txRunner, metrics: metrics, log: log, now: time.Now}
}

// UndoMovement agrega el movimiento opuesto a movementID con nota "Undo of {id}".
// Si alguna condición no se cumple no hace nada y devuelve nil; solo los fallos
// del almacén se devuelven como error. Comprobaciones e inserción van en la misma
// transacción con el producto bloqueado, así dos deshacer concurrentes no pueden pasar ambos.
func (uc *UndoMovementUseCase) UndoMovement(ctx context.Context, movementID string, requester Actor) error {
	outcome := UndoApplied
	var undoID string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
		productRepo repository.ProductRepository,
	) error {
		original, err := movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if original == nil {
			outcome = UndoSkipNotFound
			return nil
		}
		if original.EnteredBy != requester.UserID && !requester.IsAdmin() {
			outcome = UndoSkipNotAllowed
			return nil
		}
		if ledger.IsUndo(original.Note) {
			outcome = UndoSkipIsUndo
			return nil
		}

		if _, err := productRepo.GetForUpdate(ctx, original.ProductID); err != nil {
			return err
		}
		done, err := movRepo.HasNotePrefix(ctx, original.ProductID, ledger.UndoNote(original.ID))
		if err != nil {
			return err
		}
		if done {
			outcome = UndoSkipAlreadyDone
			return nil
		}

		balance, err := NewBalanceResolver(movRepo).BalanceOf(ctx, original.ProductID)
		if err != nil {
			return err
		}
		direction := ledger.Opposite(original.Direction)
		if direction == entity.DirectionOut && original.Quantity.GreaterThan(balance) {
			outcome = UndoSkipNoStock
			return nil
		}

		now := uc.now().UTC()
		undo := &entity.Movement{
			ID:             uuid.Must(uuid.NewV7()).String(),
			ProductID:      original.ProductID,
			Direction:      direction,
			Quantity:       original.Quantity,
			BalanceAfter:   ledger.Next(balance, direction, original.Quantity),
			Note:           ledger.UndoNote(original.ID),
			EnteredBy:      requester.UserID,
			IdempotencyKey: ledger.UndoIdempotencyKey(original.ID, now),
			CreatedAt:      now,
		}
		if err := movRepo.Create(ctx, undo); err != nil {
			return err
		}
		undoID = undo.ID
		return nil
	})
	if err != nil {
		return err
	}

	uc.metrics.UndoFinished(outcome)
	if outcome != UndoApplied {
		uc.log.Debug().
			Str("movement_id", movementID).
			Str("requested_by", requester.UserID).
			Str("reason", outcome).
			Msg("deshacer omitido")
		return nil
	}
	uc.log.Info().
		Str("movement_id", movementID).
		Str("undo_movement_id", undoID).
		Str("requested_by", requester.UserID).
		Msg("movimiento revertido")
	return nil
}
