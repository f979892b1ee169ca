package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jsu-events/drinktally-api/internal/config"
	"github.com/jsu-events/drinktally-api/internal/database"
	"github.com/jsu-events/drinktally-api/internal/handler"
	"github.com/jsu-events/drinktally-api/internal/middleware"
	"github.com/jsu-events/drinktally-api/internal/observability"
	"github.com/jsu-events/drinktally-api/internal/repository"
	"github.com/jsu-events/drinktally-api/internal/router"
	"github.com/jsu-events/drinktally-api/internal/service"
	"github.com/jsu-events/drinktally-api/pkg/qrcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	drinkRepo := repository.NewDrinkRepository(db)
	logRepo := repository.NewLogRepository(db)

	sessionStore := service.NewSessionStore(redisClient, cfg.RedisKeyPrefix, logger)
	auditService := service.NewAuditService(logRepo, logger)
	changefeed := service.NewChangefeedService(redisClient, cfg.ChangefeedChannel, natsConn, logger)
	authService := service.NewAuthService(accountRepo, profileRepo, roleRepo, sessionStore, validate, logger, cfg.JWTSecret, cfg.TokenTTL)
	participantService := service.NewParticipantService(participantRepo, drinkRepo, partyRepo, changefeed, validate, logger)
	partyService := service.NewPartyService(partyRepo, auditService, changefeed, validate, logger)
	drinkService := service.NewDrinkService(drinkRepo, participantRepo, partyRepo, auditService, changefeed, validate, logger)

	qrGenerator := qrcode.New(nil)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	participantHandler := handler.NewParticipantHandler(participantService, drinkService, qrGenerator, cfg.PublicBaseURL, validate, logger)
	partyHandler := handler.NewPartyHandler(partyService, logger)
	logHandler := handler.NewLogHandler(auditService, logger)
	changefeedHandler := handler.NewChangefeedHandler(changefeed, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		ParticipantHandler: participantHandler,
		PartyHandler:       partyHandler,
		LogHandler:         logHandler,
		ChangefeedHandler:  changefeedHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		SessionMiddleware:  middleware.SessionRequired(authService),
		RoleMiddleware:     middleware.ResolveRole(authService),
	})

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	changefeed.Start(feedCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
