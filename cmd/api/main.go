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
	"github.com/jhoicas/docvault-api/internal/application/usecase"
	"github.com/jhoicas/docvault-api/internal/infrastructure/keymaster"
	"github.com/jhoicas/docvault-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/docvault-api/internal/interfaces/http"
	"github.com/jhoicas/docvault-api/pkg/config"
	"github.com/jhoicas/docvault-api/pkg/logger"
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

	categoryRepo := postgres.NewCategoryRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	notifier := postgres.NewNotifier(pool, cfg.Events.Channel)
	custodian := keymaster.NewClient(cfg.Keymaster.BaseURL, cfg.Keymaster.Timeout)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, notifier)
	groupUC := usecase.NewGroupUseCase(groupRepo, custodian, notifier)
	documentUC := usecase.NewDocumentUseCase(documentRepo, notifier)
	syncUC := usecase.NewSyncUseCase(categoryRepo, groupRepo, documentRepo, custodian, cfg.App.Domain)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: los listados en streaming pueden tardar más de lo
		// que tolera un timeout fijo de escritura.
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "DocVault API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		GroupUC:    groupUC,
		DocumentUC: documentUC,
		SyncUC:     syncUC,
		JWTSecret:  cfg.JWT.Secret,
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
