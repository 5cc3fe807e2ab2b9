package analytics_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeReports struct {
	totals     []repository.DirectionTotal
	movements  []*repository.MovementDetail
	count      int
	err        error
	lastFilter repository.MovementFilter
	lastFrom   time.Time
	lastTo     time.Time
}

func (f *fakeReports) ListMovements(_ context.Context, filter repository.MovementFilter) ([]*repository.MovementDetail, error) {
	f.lastFilter = filter
	return f.movements, f.err
}

func (f *fakeReports) DirectionTotals(_ context.Context, from, to time.Time) ([]repository.DirectionTotal, error) {
	f.lastFrom, f.lastTo = from, to
	return f.totals, f.err
}

func (f *fakeReports) CountMovements(_ context.Context, from, to time.Time) (int, error) {
	f.lastFrom, f.lastTo = from, to
	return f.count, f.err
}

type fakeProducts struct {
	list []*repository.ProductDetail
}

func (f *fakeProducts) Create(context.Context, *entity.Product) error { return nil }
func (f *fakeProducts) GetByID(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) GetForUpdate(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) GetDetail(context.Context, string) (*repository.ProductDetail, error) {
	return nil, nil
}
func (f *fakeProducts) List(context.Context, repository.ProductFilter) ([]*repository.ProductDetail, error) {
	return f.list, nil
}
func (f *fakeProducts) ListVariants(context.Context, string, string, string) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) Update(context.Context, *entity.Product) error { return nil }

type fakeBalances struct {
	balances map[string]decimal.Decimal
	calls    int
}

func (f *fakeBalances) Create(context.Context, *entity.Movement) error { return nil }
func (f *fakeBalances) GetByID(context.Context, string) (*entity.Movement, error) {
	return nil, nil
}
func (f *fakeBalances) ExistsByIdempotencyKey(context.Context, string) (bool, error) {
	return false, nil
}
func (f *fakeBalances) HasNotePrefix(context.Context, string, string) (bool, error) {
	return false, nil
}
func (f *fakeBalances) BalanceOf(_ context.Context, id string) (decimal.Decimal, error) {
	return f.balances[id], nil
}
func (f *fakeBalances) BalanceMap(context.Context, []string) (map[string]decimal.Decimal, error) {
	f.calls++
	return f.balances, nil
}

// memCache caché en memoria con la misma semántica JSON que la de Redis.
type memCache struct {
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.sets++
	c.data[key] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func product(id, category, size string) *repository.ProductDetail {
	return &repository.ProductDetail{
		Product:      entity.Product{ID: id, SizeLabel: size, IsActive: true},
		CategoryName: category,
		ColorName:    "Rojo",
		UnitName:     "m",
	}
}
