package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/cache"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/Bodega-api/internal/interfaces/http"
)

const (
	adminPin    = "1234"
	operatorPin = "5678"
)

type testServer struct {
	app        *fiber.App
	adminTok   string
	opTok      string
	operatorID string
	productID  string
}

// newTestServer arma la API completa sobre SQLite en memoria, con un admin, un operador y un producto.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlite.Migrate(ctx, db)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	threshold := decimal.NewFromInt(20)
	log := zerolog.Nop()

	userRepo := sqlite.NewUserRepository(db)
	catalogRepo := sqlite.NewCatalogRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	movRepo := sqlite.NewMovementRepository(db)
	reportRepo := sqlite.NewReportRepository(db)
	txRunner := sqlite.NewTxRunner(db)
	viewCache := cache.NewMemoryViewCache(time.Minute)
	prom := metrics.NewPrometheus()

	balances := inventory.NewBalanceResolver(movRepo)
	reportUC := appanalytics.NewReportUseCase(reportRepo, productRepo, balances, loc, threshold)
	userUC := usecase.NewUserUseCase(userRepo).WithBcryptCost(bcrypt.MinCost)

	require.NoError(t, catalogRepo.CreateCategory(ctx, &entity.Category{ID: "cat-1", Name: "Rope", CreatedAt: time.Now()}))
	require.NoError(t, catalogRepo.CreateColor(ctx, &entity.Color{ID: "col-1", Name: "Red"}))
	require.NoError(t, catalogRepo.CreateUnit(ctx, &entity.Unit{ID: "unit-1", Name: "Meters"}))
	_, err = userUC.Create(ctx, dto.CreateUserRequest{Name: "Asha", Pin: adminPin, Role: entity.RoleAdmin})
	require.NoError(t, err)
	op, err := userUC.Create(ctx, dto.CreateUserRequest{Name: "Ravi", Pin: operatorPin, Role: entity.RoleOperator})
	require.NoError(t, err)

	app := apphttp.NewApp("bodega-test", log, prom)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:         userUC,
		CatalogUC:      usecase.NewCatalogUseCase(catalogRepo),
		ProductUC:      usecase.NewProductUseCase(productRepo, catalogRepo, reportRepo, balances, viewCache, log),
		RecordMovement: inventory.NewRecordMovementUseCase(txRunner, prom, log, threshold),
		UndoMovement:   inventory.NewUndoMovementUseCase(txRunner, prom, log),
		AdjustBalance:  inventory.NewAdjustBalanceUseCase(txRunner, sqlite.NewAdjustmentRepository(db), prom, log),
		ReportUC:       reportUC,
		ExportUC:       appanalytics.NewExportUseCase(reportUC, pdf.NewMarotoReportRenderer(), xlsx.NewReportRenderer()),
		DashboardUC:    appanalytics.NewDashboardUseCase(productRepo, reportRepo, balances, viewCache, loc, log),
		Users:          userRepo,
		Cache:          viewCache,
		JWTSecret:      testJWTSecret,
		ServiceName:    "bodega-test",
		HealthCheck:    db.PingContext,
		MetricsHandler: prom.Handler(),
	})

	s := &testServer{app: app, operatorID: op.ID}
	s.adminTok = s.login(t, adminPin)
	s.opTok = s.login(t, operatorPin)

	var product dto.ProductResponse
	resp := s.do(t, http.MethodPost, "/api/products", s.adminTok, dto.CreateProductRequest{
		CategoryID: "cat-1", ColorID: "col-1", UnitID: "unit-1", SizeLabel: "9 mm",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &product)
	s.productID = product.ID
	return s
}

func (s *testServer) login(t *testing.T, pin string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Pin: pin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) move(t *testing.T, token, direction, qty, key string) *http.Response {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/movements", token, dto.RecordMovementRequest{
		ProductID:      s.productID,
		Direction:      direction,
		Quantity:       decimal.RequireFromString(qty),
		IdempotencyKey: key,
	})
}

func (s *testServer) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/api/balances/"+s.productID, s.opTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BalanceResponse
	decodeBody(t, resp, &out)
	return out.Balance
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	return out.Code
}

// ── Infraestructura ──────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "bodega_http_requests_total")
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_PinIncorrecto_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Pin: "0000"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestLogin_PinMalFormado_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Pin: "12a"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestMe_DevuelveSesion(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/auth/me", s.opTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	decodeBody(t, resp, &out)
	assert.Equal(t, s.operatorID, out["user_id"])
	assert.Equal(t, entity.RoleOperator, out["role"])
}

func TestUsuarioDesactivado_PierdeLaSesion(t *testing.T) {
	s := newTestServer(t)
	inactive := false
	resp := s.do(t, http.MethodPatch, "/api/users/"+s.operatorID+"/status", s.adminTok,
		dto.SetUserStatusRequest{IsActive: &inactive})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/balances", s.opTok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "USER_INACTIVE", errorCode(t, resp))
}

// ── Movimientos ──────────────────────────────────────────────────────────────

func TestMovimientos_EntradaSalidaYRechazo(t *testing.T) {
	s := newTestServer(t)

	resp := s.move(t, s.opTok, entity.DirectionIn, "50", uuid.NewString())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.move(t, s.opTok, entity.DirectionOut, "30", uuid.NewString())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.RecordMovementResponse
	decodeBody(t, resp, &out)
	assert.True(t, decimal.NewFromInt(50).Equal(out.PreviousBalance))
	assert.True(t, decimal.NewFromInt(20).Equal(out.BalanceAfter))
	assert.True(t, out.LargeDispatch, "30 > 20 se marca como salida grande")

	resp = s.move(t, s.opTok, entity.DirectionOut, "25", uuid.NewString())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	assert.True(t, decimal.NewFromInt(20).Equal(s.balance(t)))
}

func TestMovimientos_ClaveRepetida_Retorna409(t *testing.T) {
	s := newTestServer(t)
	key := uuid.NewString()

	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "5", key).StatusCode)
	resp := s.move(t, s.opTok, entity.DirectionIn, "5", key)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SUBMISSION", errorCode(t, resp))
	assert.True(t, decimal.NewFromInt(5).Equal(s.balance(t)))
}

func TestMovimientos_DireccionInvalida_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.move(t, s.opTok, "sideways", "5", uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestMovimientos_CantidadCero_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.move(t, s.opTok, entity.DirectionIn, "0", uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, resp))
}

func TestMovimientos_CuerpoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/movements", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.opTok)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovimientos_CantidadNoNumerica_RetornaInvalidQuantity(t *testing.T) {
	s := newTestServer(t)
	for _, qty := range []any{"abc", true, map[string]any{}} {
		resp := s.do(t, http.MethodPost, "/api/movements", s.opTok, map[string]any{
			"product_id": s.productID, "direction": entity.DirectionIn,
			"quantity": qty, "idempotency_key": uuid.NewString(),
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity=%v", qty)
		assert.Equal(t, "INVALID_QUANTITY", errorCode(t, resp), "quantity=%v", qty)
	}
	assert.True(t, decimal.Zero.Equal(s.balance(t)))
}

func TestMovimientos_ProductoInexistente_Retorna404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/movements", s.opTok, dto.RecordMovementRequest{
		ProductID: "no-existe", Direction: entity.DirectionIn,
		Quantity: decimal.NewFromInt(1), IdempotencyKey: uuid.NewString(),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUndo_RevierteYEsSilenciosoLaSegundaVez(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "10", uuid.NewString()).StatusCode)
	resp := s.move(t, s.opTok, entity.DirectionOut, "4", uuid.NewString())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.RecordMovementResponse
	decodeBody(t, resp, &out)

	resp = s.do(t, http.MethodPost, "/api/movements/"+out.MovementID+"/undo", s.opTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, decimal.NewFromInt(10).Equal(s.balance(t)))

	resp = s.do(t, http.MethodPost, "/api/movements/"+out.MovementID+"/undo", s.opTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, decimal.NewFromInt(10).Equal(s.balance(t)))
}

func TestRecent_SoloLosMios(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "3", uuid.NewString()).StatusCode)
	require.Equal(t, http.StatusCreated, s.move(t, s.adminTok, entity.DirectionIn, "2", uuid.NewString()).StatusCode)

	resp := s.do(t, http.MethodGet, "/api/movements/recent?mine=true", s.opTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.MovementDTO
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, s.operatorID, list[0].EnteredBy)
}

// ── Ajustes y reportes (admin) ───────────────────────────────────────────────

func TestAjuste_AdminFijaSaldo(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "8", uuid.NewString()).StatusCode)

	resp := s.do(t, http.MethodPost, "/api/adjustments", s.adminTok, dto.AdjustBalanceRequest{
		ProductID: s.productID, NewBalance: decPtr(-3), Reason: "conteo físico",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, decimal.NewFromInt(-3).Equal(s.balance(t)))

	resp = s.do(t, http.MethodGet, "/api/adjustments", s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.AdjustmentListResponse
	decodeBody(t, resp, &list)
	require.Len(t, list.Items, 1)
	assert.True(t, decimal.NewFromInt(8).Equal(list.Items[0].OldBalance))
}

func TestAjuste_SinNuevoSaldo_NoTocaElSaldo(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "50", uuid.NewString()).StatusCode)

	bodies := map[string]map[string]any{
		"ausente": {"product_id": s.productID, "reason": "conteo"},
		"null":    {"product_id": s.productID, "reason": "conteo", "new_balance": nil},
		"texto":   {"product_id": s.productID, "reason": "conteo", "new_balance": "muchos"},
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/adjustments", s.adminTok, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION", errorCode(t, resp))
			assert.True(t, decimal.NewFromInt(50).Equal(s.balance(t)))
		})
	}

	resp := s.do(t, http.MethodGet, "/api/adjustments", s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.AdjustmentListResponse
	decodeBody(t, resp, &list)
	assert.Empty(t, list.Items)
}

func TestAjuste_SaldoCeroExplicito_SeAplica(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "5", uuid.NewString()).StatusCode)

	resp := s.do(t, http.MethodPost, "/api/adjustments", s.adminTok, dto.AdjustBalanceRequest{
		ProductID: s.productID, NewBalance: decPtr(0), Reason: "merma total",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, decimal.Zero.Equal(s.balance(t)))
}

func TestRutasAdmin_OperadorRecibe403(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/reports/daily", "/api/adjustments", "/api/users"} {
		resp := s.do(t, http.MethodGet, path, s.opTok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestReporteDiarioXLSX_Cabeceras(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "5", uuid.NewString()).StatusCode)

	resp := s.do(t, http.MethodGet, "/api/reports/daily.xlsx", s.adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "un xlsx es un zip")
}

func TestReporteDiario_FechaInvalida_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/reports/daily?date=ayer", s.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_ReflejaMovimientos(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.move(t, s.opTok, entity.DirectionIn, "7", uuid.NewString()).StatusCode)

	resp := s.do(t, http.MethodGet, "/api/dashboard", s.opTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]any
	decodeBody(t, resp, &out)
	assert.NotEmpty(t, out)
}

func TestCrearProducto_VarianteDuplicada_Retorna409(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", s.adminTok, dto.CreateProductRequest{
		CategoryID: "cat-1", ColorID: "col-1", UnitID: "unit-1", SizeLabel: "9 MM",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
}
