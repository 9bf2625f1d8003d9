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

	"github.com/facturaloperu/facturacion-api/internal/application/auth"
	"github.com/facturaloperu/facturacion-api/internal/application/billing"
	"github.com/facturaloperu/facturacion-api/internal/application/usecase"
	infrapdf "github.com/facturaloperu/facturacion-api/internal/infrastructure/pdf"
	"github.com/facturaloperu/facturacion-api/internal/infrastructure/postgres"
	"github.com/facturaloperu/facturacion-api/internal/infrastructure/storage"
	infrasunat "github.com/facturaloperu/facturacion-api/internal/infrastructure/sunat"
	httpRouter "github.com/facturaloperu/facturacion-api/internal/interfaces/http"
	"github.com/facturaloperu/facturacion-api/pkg/config"
	"github.com/facturaloperu/facturacion-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	summaryRepo := postgres.NewSummaryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	fileStore, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de artefactos")
	}
	submitter := infrasunat.NewClient(cfg.SUNAT)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, auth.LockPolicy{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		LockoutDuration:   time.Duration(cfg.Auth.LockoutMinutes) * time.Minute,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	userUC := usecase.NewUserUseCase(userRepo, companyRepo)
	emitUC := billing.NewEmitDocumentUseCase(
		txRunner, docRepo, companyRepo, branchRepo, clientRepo,
		submitter, fileStore, log,
	)
	filesUC := billing.NewFilesUseCase(docRepo, companyRepo, clientRepo, fileStore, pdfGenerator)
	summaryUC := billing.NewSummaryUseCase(summaryRepo, docRepo, companyRepo, submitter, fileStore, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 70, // la emisión espera la respuesta síncrona del colaborador
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CompanyUC: companyUC,
		BranchUC:  branchUC,
		ClientUC:  clientUC,
		UserUC:    userUC,
		EmitUC:    emitUC,
		FilesUC:   filesUC,
		SummaryUC: summaryUC,
		JWTSecret: cfg.JWT.Secret,
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
