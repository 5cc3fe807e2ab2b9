package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/application/ports"
	"github.com/jhoicas/Bodega-api/internal/application/usecase"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/cache"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Bodega-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/store"
	"github.com/jhoicas/Bodega-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Bodega-api/internal/interfaces/http"
	"github.com/jhoicas/Bodega-api/pkg/config"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de reportes")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer st.Close()

	// Métricas: Prometheus o descartar.
	var (
		ledgerMetrics inventory.Metrics = inventory.NopMetrics{}
		httpObserver  httpRouter.HTTPObserver
		prom          *metrics.Prometheus
	)
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		ledgerMetrics = prom
		httpObserver = prom
	}

	// Caché de vistas: Redis si REDIS_URL está definido, si no en memoria del proceso.
	var viewCache ports.ViewCache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisViewCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		viewCache = redisCache
		log.Info().Msg("caché de vistas en Redis")
	} else {
		viewCache = cache.NewMemoryViewCache(cfg.Cache.TTL)
	}

	threshold := cfg.Ledger.LargeDispatchThreshold
	balances := inventory.NewBalanceResolver(st.Movements)

	recordUC := inventory.NewRecordMovementUseCase(st.TxRunner, ledgerMetrics, log.Component("movements"), threshold)
	undoUC := inventory.NewUndoMovementUseCase(st.TxRunner, ledgerMetrics, log.Component("undo"))
	adjustUC := inventory.NewAdjustBalanceUseCase(st.TxRunner, st.Adjustments, ledgerMetrics, log.Component("adjustments"))

	reportUC := appanalytics.NewReportUseCase(st.Reports, st.Products, balances, loc, threshold)
	exportUC := appanalytics.NewExportUseCase(reportUC, infrapdf.NewMarotoReportRenderer(), xlsx.NewReportRenderer())
	dashboardUC := appanalytics.NewDashboardUseCase(st.Products, st.Reports, balances, viewCache, loc, log.Component("dashboard"))

	productUC := usecase.NewProductUseCase(st.Products, st.Catalog, st.Reports, balances, viewCache, log.Component("products"))
	catalogUC := usecase.NewCatalogUseCase(st.Catalog)
	userUC := usecase.NewUserUseCase(st.Users)
	authUC := auth.NewAuthUseCase(st.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name, log.Component("http"), httpObserver)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Bodega API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		CatalogUC:      catalogUC,
		ProductUC:      productUC,
		RecordMovement: recordUC,
		UndoMovement:   undoUC,
		AdjustBalance:  adjustUC,
		ReportUC:       reportUC,
		ExportUC:       exportUC,
		DashboardUC:    dashboardUC,
		Users:          st.Users,
		Cache:          viewCache,
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
		HealthCheck:    st.Ping,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
