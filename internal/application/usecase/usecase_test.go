package usecase_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/cache"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlite"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	db       *sql.DB
	catalog  *usecase.CatalogUseCase
	products *usecase.ProductUseCase
	users    *usecase.UserUseCase
	recorder *inventory.RecordMovementUseCase
	catIDs   [3]string // categoría, color, unidad
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlite.Migrate(ctx, db)
	require.NoError(t, err)

	catalogRepo := sqlite.NewCatalogRepository(db)
	balances := inventory.NewBalanceResolver(sqlite.NewMovementRepository(db))
	e := &env{
		db:      db,
		catalog: usecase.NewCatalogUseCase(catalogRepo),
		products: usecase.NewProductUseCase(sqlite.NewProductRepository(db), catalogRepo,
			sqlite.NewReportRepository(db), balances, cache.NewMemoryViewCache(time.Minute), zerolog.Nop()),
		users:    usecase.NewUserUseCase(sqlite.NewUserRepository(db)).WithBcryptCost(bcrypt.MinCost),
		recorder: inventory.NewRecordMovementUseCase(sqlite.NewTxRunner(db), nil, zerolog.Nop(), decimal.NewFromInt(20)),
	}

	cat, err := e.catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Rope"})
	require.NoError(t, err)
	col, err := e.catalog.CreateColor(ctx, dto.CreateColorRequest{Name: "Red"})
	require.NoError(t, err)
	unit, err := e.catalog.CreateUnit(ctx, dto.CreateUnitRequest{Name: "Meters"})
	require.NoError(t, err)
	e.catIDs = [3]string{cat.ID, col.ID, unit.ID}
	return e
}

func (e *env) createProduct(t *testing.T, size string) *dto.ProductResponse {
	t.Helper()
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		CategoryID: e.catIDs[0], ColorID: e.catIDs[1], UnitID: e.catIDs[2], SizeLabel: size,
	})
	require.NoError(t, err)
	return p
}

func (e *env) createUser(t *testing.T, name, pin, role string) *dto.UserResponse {
	t.Helper()
	u, err := e.users.Create(context.Background(), dto.CreateUserRequest{Name: name, Pin: pin, Role: role})
	require.NoError(t, err)
	return u
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

func TestCatalog_DuplicadosSinDistinguirMayusculas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "  ROPE "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = e.catalog.CreateColor(ctx, dto.CreateColorRequest{Name: "red"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = e.catalog.CreateUnit(ctx, dto.CreateUnitRequest{Name: "meters"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = e.catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalog_Get(t *testing.T) {
	e := newEnv(t)
	hex := "#00FF00"
	_, err := e.catalog.CreateColor(context.Background(), dto.CreateColorRequest{Name: "Green", HexCode: &hex})
	require.NoError(t, err)

	out, err := e.catalog.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Categories, 1)
	assert.Len(t, out.Colors, 2)
	assert.Len(t, out.Units, 1)
}

// ── Productos ────────────────────────────────────────────────────────────────

func TestProduct_CreateNormalizaTallaYGeneraSKU(t *testing.T) {
	e := newEnv(t)
	p := e.createProduct(t, "9mm")

	assert.Equal(t, "9 mm", p.SizeLabel)
	require.NotNil(t, p.SKUCode)
	assert.Equal(t, "ROP-RED-9MM-MET", *p.SKUCode)
	assert.Equal(t, "Rope - Red 9 mm (Meters)", p.Name)
	assert.True(t, p.Balance.IsZero())
	assert.True(t, p.IsActive)
}

func TestProduct_CreateVarianteDuplicada(t *testing.T) {
	e := newEnv(t)
	e.createProduct(t, "9 mm")

	_, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		CategoryID: e.catIDs[0], ColorID: e.catIDs[1], UnitID: e.catIDs[2], SizeLabel: "9 MM",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_CreateCatalogoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		CategoryID: "no-existe", ColorID: e.catIDs[1], UnitID: e.catIDs[2], SizeLabel: "9 mm",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProduct_SKUExplicitoEnMayusculas(t *testing.T) {
	e := newEnv(t)
	sku := " rp-9 "
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		CategoryID: e.catIDs[0], ColorID: e.catIDs[1], UnitID: e.catIDs[2], SizeLabel: "9 mm", SKUCode: &sku,
	})
	require.NoError(t, err)
	assert.Equal(t, "RP-9", *p.SKUCode)
}

func TestProduct_SaldosEHistorial(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createProduct(t, "9 mm")
	op := e.createUser(t, "Ravi", "5678", entity.RoleOperator)

	for _, qty := range []string{"12.5", "2.5"} {
		_, err := e.recorder.RecordMovement(ctx, inventory.RecordMovementInput{
			ProductID: p.ID, Direction: entity.DirectionIn, Quantity: decimal.RequireFromString(qty),
			EnteredBy: op.ID, IdempotencyKey: uuid.NewString(),
		})
		require.NoError(t, err)
	}

	b, err := e.products.Balance(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(b.Balance))
	assert.Equal(t, "healthy", b.Status)

	detail, err := e.products.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Movements, 2)
	assert.True(t, decimal.RequireFromString("2.5").Equal(detail.Movements[0].Quantity), "más recientes primero")

	all, err := e.products.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, decimal.NewFromInt(15).Equal(all[0].Balance))

	_, err = e.products.Balance(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ListYBusqueda(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createProduct(t, "9 mm")
	e.createProduct(t, "12 mm")

	all, err := e.products.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := e.products.List(ctx, "12")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "12 mm", found[0].SizeLabel)
}

func TestProduct_UpdateTallaYEstado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p9 := e.createProduct(t, "9 mm")
	e.createProduct(t, "12 mm")

	clash := "12MM"
	_, err := e.products.Update(ctx, p9.ID, dto.UpdateProductRequest{SizeLabel: &clash})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	size, inactive := "10mm", false
	out, err := e.products.Update(ctx, p9.ID, dto.UpdateProductRequest{SizeLabel: &size, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "10 mm", out.SizeLabel)
	assert.False(t, out.IsActive)

	active, err := e.products.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, active, 1, "los inactivos no aparecen en el listado")

	_, err = e.products.Update(ctx, "no-existe", dto.UpdateProductRequest{IsActive: &inactive})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestUser_CreateValidaYNoRepitePin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.createUser(t, "Asha", "1234", entity.RoleAdmin)

	cases := []struct {
		name string
		in   dto.CreateUserRequest
		want error
	}{
		{"pin repetido", dto.CreateUserRequest{Name: "Otro", Pin: "1234", Role: entity.RoleOperator}, domain.ErrDuplicate},
		{"pin corto", dto.CreateUserRequest{Name: "Otro", Pin: "12", Role: entity.RoleOperator}, domain.ErrValidation},
		{"rol desconocido", dto.CreateUserRequest{Name: "Otro", Pin: "4321", Role: "root"}, domain.ErrValidation},
		{"sin nombre", dto.CreateUserRequest{Name: " ", Pin: "4321", Role: entity.RoleOperator}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.users.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUser_DesactivarLiberaElPin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "Ravi", "5678", entity.RoleOperator)

	require.NoError(t, e.users.SetActive(ctx, u.ID, false))
	e.createUser(t, "Meera", "5678", entity.RoleOperator)

	list, err := e.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, e.users.SetActive(ctx, "no-existe", true), domain.ErrNotFound)
}

func TestUser_ResetPin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.createUser(t, "Asha", "1234", entity.RoleAdmin)
	e.createUser(t, "Ravi", "5678", entity.RoleOperator)

	assert.ErrorIs(t, e.users.ResetPin(ctx, a.ID, "5678"), domain.ErrDuplicate)
	require.NoError(t, e.users.ResetPin(ctx, a.ID, "1234"), "reusar el propio PIN está permitido")
	require.NoError(t, e.users.ResetPin(ctx, a.ID, "9999"))
	assert.ErrorIs(t, e.users.ResetPin(ctx, "no-existe", "1111"), domain.ErrNotFound)
}
