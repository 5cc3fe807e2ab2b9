package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// BalanceResolver deriva saldos del libro. Nunca lee un saldo guardado: siempre suma movimientos.
// Atado al pool sirve a dashboards y reportes; atado a una tx lo usan los casos de uso de escritura.
type BalanceResolver struct {
	movRepo repository.MovementRepository
}

// NewBalanceResolver construye el resolver sobre el repositorio de movimientos dado.
func NewBalanceResolver(movRepo repository.MovementRepository) *BalanceResolver {
	return &BalanceResolver{movRepo: movRepo}
}

// BalanceOf saldo actual del producto; 0 si no tiene movimientos.
func (r *BalanceResolver) BalanceOf(ctx context.Context, productID string) (decimal.Decimal, error) {
	b, err := r.movRepo.BalanceOf(ctx, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("saldo de %s: %w", productID, err)
	}
	return b, nil
}

// BalanceMapOf saldos de todos los productos (o de los ids dados) en una sola consulta.
// Con ids, cada id pedido aparece en el mapa aunque no tenga movimientos.
func (r *BalanceResolver) BalanceMapOf(ctx context.Context, productIDs ...string) (ledger.BalanceMap, error) {
	raw, err := r.movRepo.BalanceMap(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("mapa de saldos: %w", err)
	}
	out := make(ledger.BalanceMap, len(raw)+len(productIDs))
	for id, b := range raw {
		out[id] = b
	}
	for _, id := range productIDs {
		out[id] = out.Of(id)
	}
	return out, nil
}
