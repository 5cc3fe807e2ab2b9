// Package analytics contiene los casos de uso de reportes y dashboard sobre el libro.
// Todo es de solo lectura.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

const (
	defaultReportLimit = 50
	maxReportLimit     = 500
	defaultRecentLimit = 10
)

// ReportUseCase reportes del libro para administradores.
type ReportUseCase struct {
	reportRepo             repository.ReportRepository
	productRepo            repository.ProductRepository
	balances               *inventory.BalanceResolver
	loc                    *time.Location
	largeDispatchThreshold decimal.Decimal
	now                    func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	balances *inventory.BalanceResolver,
	loc *time.Location,
	largeDispatchThreshold decimal.Decimal,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:             reportRepo,
		productRepo:            productRepo,
		balances:               balances,
		loc:                    loc,
		largeDispatchThreshold: largeDispatchThreshold,
		now:                    time.Now,
	}
}

// DailySummary totales por dirección y detalle de movimientos del día (zona de reportes).
// Fecha vacía = hoy.
func (uc *ReportUseCase) DailySummary(ctx context.Context, date string) (*dto.DailyReportDTO, error) {
	if date == "" {
		date = Today(uc.now(), uc.loc)
	}
	from, to, err := DayRange(date, uc.loc)
	if err != nil {
		return nil, err
	}

	totals, err := uc.reportRepo.DirectionTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporte diario: totales: %w", err)
	}
	movements, err := uc.reportRepo.ListMovements(ctx, repository.MovementFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("reporte diario: movimientos: %w", err)
	}

	report := &dto.DailyReportDTO{
		Date:      date,
		Timezone:  uc.loc.String(),
		In:        dto.DirectionTotalDTO{Total: decimal.Zero},
		Out:       dto.DirectionTotalDTO{Total: decimal.Zero},
		Movements: dto.NewMovementDTOs(movements),
	}
	for _, t := range totals {
		switch t.Direction {
		case entity.DirectionIn:
			report.In = dto.DirectionTotalDTO{Total: t.Total, Count: t.Count}
		case entity.DirectionOut:
			report.Out = dto.DirectionTotalDTO{Total: t.Total, Count: t.Count}
		}
	}
	return report, nil
}

// LargeDispatches salidas por encima del umbral de revisión, más recientes primero.
func (uc *ReportUseCase) LargeDispatches(ctx context.Context, limit int) ([]dto.MovementDTO, error) {
	threshold := uc.largeDispatchThreshold
	list, err := uc.reportRepo.ListMovements(ctx, repository.MovementFilter{
		Direction:   entity.DirectionOut,
		MinQuantity: &threshold,
		Limit:       clampLimit(limit, defaultReportLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("salidas grandes: %w", err)
	}
	return dto.NewMovementDTOs(list), nil
}

// NegativeBalanceAnomalies movimientos que dejaron el saldo bajo cero, más recientes primero.
func (uc *ReportUseCase) NegativeBalanceAnomalies(ctx context.Context, limit int) ([]dto.MovementDTO, error) {
	list, err := uc.reportRepo.ListMovements(ctx, repository.MovementFilter{
		NegativeBalanceOnly: true,
		Limit:               clampLimit(limit, defaultReportLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("anomalías de saldo: %w", err)
	}
	return dto.NewMovementDTOs(list), nil
}

// NegativeStock productos activos cuyo saldo vivo es negativo, el más negativo primero.
func (uc *ReportUseCase) NegativeStock(ctx context.Context) ([]dto.NegativeStockDTO, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("stock negativo: productos: %w", err)
	}
	balances, err := uc.balances.BalanceMapOf(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock negativo: %w", err)
	}
	return negativeItems(products, balances.Of), nil
}

// RecentMovements últimos movimientos; enteredBy vacío = de todos los usuarios.
func (uc *ReportUseCase) RecentMovements(ctx context.Context, enteredBy string, limit int) ([]dto.MovementDTO, error) {
	list, err := uc.reportRepo.ListMovements(ctx, repository.MovementFilter{
		EnteredBy: enteredBy,
		Limit:     clampLimit(limit, defaultRecentLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("movimientos recientes: %w", err)
	}
	return dto.NewMovementDTOs(list), nil
}

func negativeItems(products []*repository.ProductDetail, balanceOf func(string) decimal.Decimal) []dto.NegativeStockDTO {
	out := make([]dto.NegativeStockDTO, 0)
	for _, p := range products {
		b := balanceOf(p.ID)
		if !b.IsNegative() {
			continue
		}
		out = append(out, dto.NegativeStockDTO{
			ProductID:   p.ID,
			ProductName: p.DisplayName(),
			SKUCode:     p.SKUCode,
			Balance:     b,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance.LessThan(out[j].Balance) })
	return out
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxReportLimit {
		return maxReportLimit
	}
	return limit
}
