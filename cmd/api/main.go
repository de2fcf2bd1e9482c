package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vacunaspa/registro-api/internal/application/certificado"
	"github.com/vacunaspa/registro-api/internal/application/usuario"
	"github.com/vacunaspa/registro-api/internal/application/vacunacion"
	"github.com/vacunaspa/registro-api/internal/infrastructure/hibp"
	infrapdf "github.com/vacunaspa/registro-api/internal/infrastructure/pdf"
	"github.com/vacunaspa/registro-api/internal/infrastructure/postgres"
	infraredis "github.com/vacunaspa/registro-api/internal/infrastructure/redis"
	httpRouter "github.com/vacunaspa/registro-api/internal/interfaces/http"
	"github.com/vacunaspa/registro-api/pkg/config"
	pkgjwt "github.com/vacunaspa/registro-api/pkg/jwt"
	"github.com/vacunaspa/registro-api/pkg/logger"
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

	redisClient, err := infraredis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	usuarioRepo := postgres.NewUsuarioRepository(pool)
	personaRepo := postgres.NewPersonaRepository(pool)
	pacienteRepo := postgres.NewPacienteRepository(pool)
	fabricanteRepo := postgres.NewFabricanteRepository(pool)
	vacunaRepo := postgres.NewVacunaRepository(pool)

	tokenStore := infraredis.NewTokenStore(redisClient)
	tokenSvc := usuario.NewTokenService(pkgjwt.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, tokenStore)

	compromisoChecker := hibp.NewChecker(cfg.HIBP)
	usuarioSvc := usuario.NewService(usuarioRepo, personaRepo, fabricanteRepo, compromisoChecker, tokenSvc, log)
	vacunacionUC := vacunacion.NewUseCase(vacunaRepo, pacienteRepo, log)
	certificadoUC := certificado.NewUseCase(pacienteRepo, vacunaRepo, infrapdf.NewMarotoCertificadoGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UsuarioSvc:    usuarioSvc,
		TokenSvc:      tokenSvc,
		VacunacionUC:  vacunacionUC,
		CertificadoUC: certificadoUC,
		TokenStore:    tokenStore,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
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
