package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// memStore almacén en memoria para los casos de uso. Run toma un mutex global,
// equivalente a bloquear la fila del producto, y confirma o descarta una copia.
type memStore struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	movements   []*entity.Movement
	adjustments []*entity.StockAdjustment
	failOn      string // nombre de operación que falla con errStore
}

var _ inventory.TxRunner = (*memStore)(nil)

var errStore = &storeError{}

type storeError struct{}

func (*storeError) Error() string { return "almacén no disponible" }

func newMemStore() *memStore {
	return &memStore{products: map[string]*entity.Product{}}
}

func (s *memStore) addProduct(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = &entity.Product{ID: id, SizeLabel: "9 mm", IsActive: active}
}

func (s *memStore) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	adjRepo repository.AdjustmentRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{
		store:       s,
		movements:   append([]*entity.Movement(nil), s.movements...),
		adjustments: append([]*entity.StockAdjustment(nil), s.adjustments...),
	}
	if err := fn(memMovements{tx}, memAdjustments{tx}, memProducts{tx}); err != nil {
		return err
	}
	s.movements = tx.movements
	s.adjustments = tx.adjustments
	return nil
}

// committed repositorio de lectura sobre el estado confirmado.
func (s *memStore) committed() repository.MovementRepository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memMovements{&memTx{store: s, movements: append([]*entity.Movement(nil), s.movements...)}}
}

func (s *memStore) balance(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	b, err := s.committed().BalanceOf(context.Background(), productID)
	require.NoError(t, err)
	return b
}

func (s *memStore) movementsOf(productID string) []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Movement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

type memTx struct {
	store       *memStore
	movements   []*entity.Movement
	adjustments []*entity.StockAdjustment
}

func (tx *memTx) fail(op string) error {
	if tx.store.failOn == op {
		return errStore
	}
	return nil
}

type memMovements struct{ tx *memTx }

func (r memMovements) Create(_ context.Context, m *entity.Movement) error {
	if err := r.tx.fail("movement.create"); err != nil {
		return err
	}
	for _, existing := range r.tx.movements {
		if existing.IdempotencyKey == m.IdempotencyKey {
			return domain.ErrDuplicateSubmission
		}
	}
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

func (r memMovements) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	if err := r.tx.fail("movement.get"); err != nil {
		return nil, err
	}
	for _, m := range r.tx.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memMovements) ExistsByIdempotencyKey(_ context.Context, key string) (bool, error) {
	for _, m := range r.tx.movements {
		if m.IdempotencyKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r memMovements) HasNotePrefix(_ context.Context, productID, prefix string) (bool, error) {
	for _, m := range r.tx.movements {
		if m.ProductID == productID && strings.HasPrefix(m.Note, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (r memMovements) BalanceOf(_ context.Context, productID string) (decimal.Decimal, error) {
	if err := r.tx.fail("movement.balance"); err != nil {
		return decimal.Zero, err
	}
	var own []*entity.Movement
	for _, m := range r.tx.movements {
		if m.ProductID == productID {
			own = append(own, m)
		}
	}
	return ledger.Fold(own), nil
}

func (r memMovements) BalanceMap(_ context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	wanted := map[string]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := ledger.BalanceMap{}
	for _, m := range r.tx.movements {
		if len(wanted) > 0 && !wanted[m.ProductID] {
			continue
		}
		out.Add(m.ProductID, m.Direction, m.Quantity)
	}
	return out, nil
}

type memAdjustments struct{ tx *memTx }

func (r memAdjustments) Create(_ context.Context, a *entity.StockAdjustment) error {
	if err := r.tx.fail("adjustment.create"); err != nil {
		return err
	}
	cp := *a
	r.tx.adjustments = append(r.tx.adjustments, &cp)
	return nil
}

func (r memAdjustments) List(_ context.Context, limit, offset int) ([]*repository.AdjustmentDetail, error) {
	var out []*repository.AdjustmentDetail
	for _, a := range r.tx.adjustments {
		out = append(out, &repository.AdjustmentDetail{StockAdjustment: *a})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memProducts struct{ tx *memTx }

func (r memProducts) Create(context.Context, *entity.Product) error { return nil }

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.tx.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.tx.fail("product.lock"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r memProducts) GetDetail(context.Context, string) (*repository.ProductDetail, error) {
	return nil, nil
}

func (r memProducts) List(context.Context, repository.ProductFilter) ([]*repository.ProductDetail, error) {
	return nil, nil
}

func (r memProducts) ListVariants(context.Context, string, string, string) ([]*entity.Product, error) {
	return nil, nil
}

func (r memProducts) Update(context.Context, *entity.Product) error { return nil }

// committedAdjustments lectura de ajustes sobre el estado confirmado en cada llamada.
type committedAdjustments struct{ s *memStore }

func (c committedAdjustments) Create(context.Context, *entity.StockAdjustment) error { return nil }

func (c committedAdjustments) List(ctx context.Context, limit, offset int) ([]*repository.AdjustmentDetail, error) {
	c.s.mu.Lock()
	tx := &memTx{store: c.s, adjustments: append([]*entity.StockAdjustment(nil), c.s.adjustments...)}
	c.s.mu.Unlock()
	return memAdjustments{tx}.List(ctx, limit, offset)
}
