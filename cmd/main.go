package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mingle/internal/app/registry"
	"mingle/internal/app/server"
	"mingle/internal/app/server/handlers"
	"mingle/internal/config"
	"mingle/internal/core/services"
	"mingle/internal/platform/logger"
	"mingle/internal/platform/telemetry"
	"mingle/internal/plugins/postgres"
	"mingle/internal/plugins/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(*cfg)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	shutdownTracer, err := telemetry.Init(ctx, *cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	db, err := postgres.New(ctx, *cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	redisClient, err := redis.NewClient(ctx, *cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepo(db)
	convRepo := postgres.NewConversationRepo(db)
	partRepo := postgres.NewParticipantRepo(db)
	msgRepo := postgres.NewMessageRepo(db)
	txManager := postgres.NewTxManager(db)

	hub := registry.NewHub(log)
	presence := redis.NewPresenceStore(redisClient)

	tokenSvc := services.NewTokenService(cfg.Auth)
	authSvc := services.NewAuthService(log, userRepo, tokenSvc)
	userSvc := services.NewUserService(log, userRepo)
	convSvc := services.NewConversationService(log, convRepo, partRepo, txManager)
	msgSvc := services.NewMessageService(log, msgRepo, hub, txManager)

	srv := server.New(*cfg, log, tokenSvc, server.Handlers{
		Auth:          handlers.NewAuthHandler(authSvc),
		Users:         handlers.NewUserHandler(userSvc),
		Conversations: handlers.NewConversationHandler(convSvc),
		Messages:      handlers.NewMessageHandler(msgSvc, convSvc, hub, presence),
	})
	return srv.Start(ctx)
}
