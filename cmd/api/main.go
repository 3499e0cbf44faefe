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

	appauth "github.com/jhoicas/facturas-viajes-api/internal/application/auth"
	"github.com/jhoicas/facturas-viajes-api/internal/application/extraction"
	"github.com/jhoicas/facturas-viajes-api/internal/application/invoicing"
	"github.com/jhoicas/facturas-viajes-api/internal/domain/repository"
	infraai "github.com/jhoicas/facturas-viajes-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/facturas-viajes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturas-viajes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturas-viajes-api/internal/interfaces/http"
	"github.com/jhoicas/facturas-viajes-api/pkg/config"
	"github.com/jhoicas/facturas-viajes-api/pkg/logger"
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

	// Problemas de configuración: se reportan una sola vez, en voz alta, al arranque.
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	ctx := context.Background()

	// Almacén de facturas: sin configuración (o sin conexión) se instala el adaptador
	// degradado, que falla toda operación con ErrStoreUnavailable en vez de un no-op.
	var invoiceRepo repository.InvoiceRepository
	if cfg.DB.Configured() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL fallida; el almacén queda NO DISPONIBLE")
			invoiceRepo = postgres.NewUnavailableRepository(err.Error())
		} else {
			defer pool.Close()
			invoiceRepo = postgres.NewInvoiceRepository(pool)
		}
	} else {
		invoiceRepo = postgres.NewUnavailableRepository("configuración de base de datos ausente")
	}

	invoiceUC := invoicing.NewUseCase(invoiceRepo, log)
	// Carga inicial de la colección; si falla queda el error ya registrado y la
	// primera petición reintenta el refresh perezoso.
	if err := invoiceUC.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("carga inicial de la colección de facturas fallida")
	}

	extractor := infraai.NewGeminiExtractor(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	extractUC := extraction.NewUseCase(extractor, log)

	authGate, err := appauth.NewUseCase(appauth.Config{
		AdminUsername: cfg.Auth.AdminUsername,
		AdminPassword: cfg.Auth.AdminPassword,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		ExpMinutes:    cfg.JWT.Expiration,
		LoginDelay:    time.Duration(cfg.Auth.LoginDelayMS) * time.Millisecond,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("construir compuerta de sesión")
	}

	reportGen := infrapdf.NewMarotoReportGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    16 * 1024 * 1024, // documentos subidos en base64
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturas de Viaje API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:  invoiceUC,
		ExtractUC:  extractUC,
		AuthGate:   authGate,
		ReportGen:  reportGen,
		ExpMinutes: cfg.JWT.Expiration,
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
