package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

func dashboardFixture() (*fakeProducts, *fakeBalances, *fakeReports) {
	products := &fakeProducts{list: []*repository.ProductDetail{
		product("p1", "Cuerda", "9 mm"),
		product("p2", "Cuerda", "12 mm"),
		product("p3", "Cinta", "1 in"),
	}}
	balances := &fakeBalances{balances: map[string]decimal.Decimal{
		"p1": dec("40"), "p2": dec("-3"), "p3": dec("2.5"), "inactivo": dec("99"),
	}}
	return products, balances, &fakeReports{count: 7}
}

func TestDashboard_Resumen(t *testing.T) {
	products, balances, reports := dashboardFixture()
	uc := analytics.NewDashboardUseCase(products, reports, inventory.NewBalanceResolver(balances),
		newMemCache(), time.UTC, zerolog.Nop())

	summary, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSKUs)
	assert.True(t, dec("42.5").Equal(summary.TotalInStock), "solo productos activos con saldo positivo")
	assert.Equal(t, 1, summary.NegativeStockCount)
	require.Len(t, summary.NegativeStockItems, 1)
	assert.Equal(t, "p2", summary.NegativeStockItems[0].ProductID)
	assert.Equal(t, 7, summary.MovementsToday)
	assert.Equal(t, 24*time.Hour, reports.lastTo.Sub(reports.lastFrom))
}

func TestDashboard_UsaCacheHastaInvalidar(t *testing.T) {
	products, balances, reports := dashboardFixture()
	cache := newMemCache()
	uc := analytics.NewDashboardUseCase(products, reports, inventory.NewBalanceResolver(balances),
		cache, time.UTC, zerolog.Nop())

	_, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	_, err = uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, balances.calls, "la segunda lectura sale de la caché")

	require.NoError(t, cache.Invalidate(context.Background(), ports.StockViews...))
	_, err = uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, balances.calls)
}

func TestDashboard_ErrorDeRepositorio(t *testing.T) {
	products, balances, _ := dashboardFixture()
	reports := &fakeReports{err: errors.New("db caída")}
	uc := analytics.NewDashboardUseCase(products, reports, inventory.NewBalanceResolver(balances),
		newMemCache(), time.UTC, zerolog.Nop())

	_, err := uc.GetSummary(context.Background())
	assert.Error(t, err)
}

type stubRenderer struct {
	got *dto.DailyReportDTO
}

func (r *stubRenderer) RenderDaily(report *dto.DailyReportDTO) ([]byte, error) {
	r.got = report
	return []byte("contenido"), nil
}

func TestExport_NombreYTipo(t *testing.T) {
	reports := newReports(&fakeReports{}, &fakeProducts{}, &fakeBalances{}, time.UTC)
	pdf, xlsx := &stubRenderer{}, &stubRenderer{}
	uc := analytics.NewExportUseCase(reports, pdf, xlsx)

	file, err := uc.ExportDailyPDF(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, "movimientos-2026-10-18.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "2026-10-18", pdf.got.Date)

	file, err = uc.ExportDailyXLSX(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, "movimientos-2026-10-18.xlsx", file.Filename)
	assert.Equal(t, []byte("contenido"), file.Content)
}
