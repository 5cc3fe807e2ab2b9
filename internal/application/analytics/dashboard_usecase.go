package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// DashboardUseCase resumen de stock: SKUs activos, unidades en stock, negativos y movimientos de hoy.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	reportRepo  repository.ReportRepository
	balances    *inventory.BalanceResolver
	cache       ports.ViewCache
	loc         *time.Location
	log         zerolog.Logger
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	reportRepo repository.ReportRepository,
	balances *inventory.BalanceResolver,
	cache ports.ViewCache,
	loc *time.Location,
	log zerolog.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		productRepo: productRepo,
		reportRepo:  reportRepo,
		balances:    balances,
		cache:       cache,
		loc:         loc,
		log:         log,
		now:         time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO. Usa la caché de vistas si está disponible.
//
// Tres consultas en paralelo:
//  1. productos activos
//  2. mapa de saldos (una pasada sobre el libro)
//  3. movimientos de hoy en la zona de reportes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var cached dto.DashboardSummaryDTO
	if ok, err := uc.cache.Get(ctx, ports.ViewDashboard, &cached); err != nil {
		uc.log.Warn().Err(err).Msg("caché de dashboard no disponible")
	} else if ok {
		return &cached, nil
	}

	today := Today(uc.now(), uc.loc)
	from, to, err := DayRange(today, uc.loc)
	if err != nil {
		return nil, err
	}

	type productsResult struct {
		list []*repository.ProductDetail
		err  error
	}
	type balancesResult struct {
		m   ledger.BalanceMap
		err error
	}
	type countResult struct {
		n   int
		err error
	}

	productsCh := make(chan productsResult, 1)
	balancesCh := make(chan balancesResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		list, err := uc.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true})
		productsCh <- productsResult{list, err}
	}()
	go func() {
		m, err := uc.balances.BalanceMapOf(ctx)
		balancesCh <- balancesResult{m, err}
	}()
	go func() {
		n, err := uc.reportRepo.CountMovements(ctx, from, to)
		countCh <- countResult{n, err}
	}()

	products := <-productsCh
	balances := <-balancesCh
	count := <-countCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if balances.err != nil {
		return nil, fmt.Errorf("dashboard: saldos: %w", balances.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", count.err)
	}

	inStock := decimal.Zero
	for _, p := range products.list {
		if b := balances.m.Of(p.ID); b.IsPositive() {
			inStock = inStock.Add(b)
		}
	}
	negative := negativeItems(products.list, balances.m.Of)

	summary := &dto.DashboardSummaryDTO{
		TotalSKUs:          len(products.list),
		TotalInStock:       inStock,
		NegativeStockCount: len(negative),
		NegativeStockItems: negative,
		MovementsToday:     count.n,
		DateLabel:          today,
	}
	if err := uc.cache.Set(ctx, ports.ViewDashboard, summary); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar el dashboard en caché")
	}
	return summary, nil
}
