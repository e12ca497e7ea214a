package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/internal/application/sales"
	"github.com/jhoicas/erp-backend/internal/application/usecase"
	"github.com/jhoicas/erp-backend/internal/infrastructure/memory"
	"github.com/jhoicas/erp-backend/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/erp-backend/internal/interfaces/http"
	"github.com/jhoicas/erp-backend/pkg/config"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/jhoicas/erp-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

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
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Unidad de trabajo: PostgreSQL en producción, memoria para demos y pruebas manuales.
	var txRunner inventory.TxRunner
	switch cfg.App.Storage {
	case "memory":
		txRunner = memory.New()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	invMetrics := metrics.NewInventoryMetrics(reg)

	allocator := inventory.NewBatchCostAllocator(log, invMetrics)
	resolver := pricing.NewBracketPriceResolver(txRunner, cfg.Pricing.ValuedOnlyOverrides, log, invMetrics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerFile != "" {
		if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.SwaggerFile,
				Path:     "docs",
				Title:    "ERP Costeo y Precios API",
			}))
		} else {
			log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.App.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(txRunner),
		CustomerUC:       usecase.NewCustomerUseCase(txRunner),
		RegisterMovement: inventory.NewRegisterMovementUseCase(txRunner, allocator, log),
		Transfer:         inventory.NewTransferUseCase(txRunner, allocator, log),
		StockQuery:       inventory.NewStockQueryUseCase(txRunner),
		PriceResolver:    resolver,
		BracketAdmin:     pricing.NewBracketAdminUseCase(txRunner, log),
		OverrideAdmin:    pricing.NewOverrideAdminUseCase(txRunner, log),
		SaleUC:           sales.NewSaleUseCase(txRunner, resolver, allocator, log),
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log,
	})

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
