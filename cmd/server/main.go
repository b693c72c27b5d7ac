package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelous0/erp-textil/internal/config"
	"github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/internal/infra/http/middleware"
	"github.com/angelous0/erp-textil/internal/infra/http/routes"
	"github.com/angelous0/erp-textil/internal/infra/postgres"
	"github.com/angelous0/erp-textil/internal/infra/redis"
	"github.com/angelous0/erp-textil/internal/infra/storage"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.SetDefault()
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer closeWithLog(db, "database", log)
	log.Info("database connected")

	redisClient, err := redis.New(&cfg.Redis, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		return 1
	}
	defer closeWithLog(redisClient, "redis", log)

	store, err := storage.NewS3Store(ctx, &cfg.Storage)
	if err != nil {
		log.Error("failed to initialize object storage", "error", err)
		return 1
	}
	log.Info("object storage initialized", "bucket", cfg.Storage.Bucket)

	repos := NewRepositories(db)
	services := NewServices(&ServiceDeps{
		Config:      cfg,
		Log:         log,
		Repos:       repos,
		RedisClient: redisClient,
		Store:       store,
	})
	log.Info("services initialized")

	v := validator.New()
	handlers := NewHandlers(&HandlerDeps{
		Config:      cfg,
		Log:         log,
		Validator:   v,
		DB:          db,
		RedisClient: redisClient,
		Services:    services,
	})

	auth := middleware.NewAuthenticator(services.JWTGenerator, services.Sessions, log)

	server := http.NewServer(cfg, log)
	routesCleanup := routes.Register(server.Router(), handlers, auth, cfg, log)
	defer routesCleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("application stopped")
	return 0
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
