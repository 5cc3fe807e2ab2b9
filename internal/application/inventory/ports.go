package inventory

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Toda lectura-validación-escritura del libro pasa por aquí.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		adjRepo repository.AdjustmentRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Metrics contadores del libro (Prometheus en producción).
type Metrics interface {
	MovementRecorded(direction string)
	MovementRejected(reason string)
	LargeDispatchFlagged()
	AdjustmentRecorded(changed bool)
	UndoFinished(outcome string)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string) {}
func (NopMetrics) MovementRejected(string) {}
func (NopMetrics) LargeDispatchFlagged()   {}
func (NopMetrics) AdjustmentRecorded(bool) {}
func (NopMetrics) UndoFinished(string)     {}

// Actor usuario que solicita la operación.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol administrador.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }
