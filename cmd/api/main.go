package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/1gnale/car-chain-api/internal/application/claims"
	"github.com/1gnale/car-chain-api/internal/application/notary"
	"github.com/1gnale/car-chain-api/internal/application/payment"
	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/application/quotes"
	"github.com/1gnale/car-chain-api/internal/application/rates"
	"github.com/1gnale/car-chain-api/internal/application/sweeper"
	"github.com/1gnale/car-chain-api/internal/infrastructure/ledger"
	"github.com/1gnale/car-chain-api/internal/infrastructure/payments"
	infrapdf "github.com/1gnale/car-chain-api/internal/infrastructure/pdf"
	"github.com/1gnale/car-chain-api/internal/infrastructure/postgres"
	httpRouter "github.com/1gnale/car-chain-api/internal/interfaces/http"
	"github.com/1gnale/car-chain-api/pkg/config"
	"github.com/1gnale/car-chain-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	polizaRepo := postgres.NewPolizaRepository(pool)
	pagoRepo := postgres.NewPagoRepository(pool)
	configRepo := postgres.NewConfigTarifaRepository(pool)
	cotizacionRepo := postgres.NewCotizacionRepository(pool)
	vehiculoRepo := postgres.NewVehiculoRepository(pool)
	documentacionRepo := postgres.NewDocumentacionRepository(pool)
	siniestroRepo := postgres.NewSiniestroRepository(pool)
	revisionRepo := postgres.NewRevisionRepository(pool)
	notarizacionRepo := postgres.NewNotarizacionRepository(pool)
	catalogoRepo := postgres.NewCatalogoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pasarela, err := payments.NewMercadoPagoGateway(cfg.MercadoPago.AccessToken, log)
	if err != nil {
		log.Fatal().Err(err).Msg("pasarela de pagos")
	}
	notario := ledger.NewHTTPNotary(cfg.Ledger.URL, cfg.Ledger.APIKey, cfg.Ledger.Timeout())
	certificados := infrapdf.NewMarotoCertificadoGenerator(cfg.App.Name)

	configUC := rates.NewUseCase(txRunner, configRepo)
	polizaUC := policy.NewUseCase(
		txRunner, polizaRepo, cotizacionRepo, vehiculoRepo,
		documentacionRepo, revisionRepo, catalogoRepo, certificados,
	)
	quotesUC := quotes.NewUseCase(cotizacionRepo, vehiculoRepo, configRepo, catalogoRepo)
	claimsUC := claims.NewUseCase(polizaRepo, siniestroRepo, revisionRepo)
	reconciler := payment.NewReconciler(
		txRunner, polizaRepo, pagoRepo, cotizacionRepo, vehiculoRepo, catalogoRepo,
		pasarela,
		cfg.HTTP.BaseURL,
		time.Duration(cfg.MercadoPago.PreferenciaMinutos)*time.Minute,
	)

	barrido := sweeper.New(polizaRepo, log)
	despachador := notary.NewDispatcher(
		notarizacionRepo, polizaRepo, notario, log,
		cfg.Ledger.Timeout(), cfg.Ledger.MaxIntentos,
	)

	// Tareas programadas: barrido diario de pólizas con cuota vencida y
	// despacho periódico de la cola de notarización.
	tareas := cron.New()
	if _, err := tareas.AddFunc(cfg.Jobs.BarridoCron, func() {
		if _, err := barrido.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("barrido de pólizas impagas")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Jobs.BarridoCron).Msg("programar barrido")
	}
	if _, err := tareas.AddFunc(cfg.Jobs.NotarizacionCron, func() {
		if err := despachador.Despachar(context.Background()); err != nil {
			log.Error().Err(err).Msg("despacho de notarizaciones")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Jobs.NotarizacionCron).Msg("programar notarización")
	}
	tareas.Start()
	defer tareas.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Car Chain API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConfigUC:   configUC,
		PolizaUC:   polizaUC,
		QuotesUC:   quotesUC,
		ClaimsUC:   claimsUC,
		Reconciler: reconciler,
		Env:        cfg.App.Env,
	})

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
