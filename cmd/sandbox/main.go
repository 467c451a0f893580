// Command sandbox runs the development backend the ReparaFácil client talks
// to: accounts, repair requests and technician assignment.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grupo8/reparafacil/internal/api"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/core/service"
	"github.com/grupo8/reparafacil/internal/infrastructure/db/memory"
	mongodb "github.com/grupo8/reparafacil/internal/infrastructure/db/mongo"
	redisdb "github.com/grupo8/reparafacil/internal/infrastructure/db/redis"
	"github.com/grupo8/reparafacil/internal/infrastructure/queue"
	"github.com/grupo8/reparafacil/internal/pkg/config"
	"github.com/grupo8/reparafacil/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "reparafacil-sandbox",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("sandbox stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		users    ports.UserRepository
		requests ports.ServiceRequestRepository
		db       *mongo.Database
	)
	switch cfg.Sandbox.Storage {
	case config.BackendMongo:
		client, database, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		userRepo := mongodb.NewUserRepository(database)
		requestRepo := mongodb.NewServiceRequestRepository(database)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := requestRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		users, requests, db = userRepo, requestRepo, database
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo storage")
	default:
		users, requests = memory.NewUserRepository(), memory.NewServiceRequestRepository()
		log.Info().Msg("using in-memory storage")
	}

	var (
		rdb  *goredis.Client
		idem ports.IdempotencyStore
	)
	if cfg.Sandbox.Idempotency {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, Idempotency-Key disabled")
		} else {
			defer client.Close()
			rdb, idem = client, redisdb.NewIdempotencyStore(client)
		}
	}

	dispatcher := queue.NewDispatcher(
		cfg.Sandbox.Workers,
		service.NewAssignmentService(users, requests, logger.Component(log, "assignment")),
		logger.Component(log, "dispatcher"),
	)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Auth:      service.NewAccountService(users, cfg.Sandbox.JWTSecret, cfg.Sandbox.TokenTTL, logger.Component(log, "accounts")),
		Services:  service.NewServiceRequestService(requests, idem, dispatcher, logger.Component(log, "service_requests")),
		JWTSecret: cfg.Sandbox.JWTSecret,
		EmbedUser: cfg.Sandbox.EmbedUser,
		Mongo:     db,
		Redis:     rdb,
		Log:       logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Sandbox.Port).Bool("embed_user", cfg.Sandbox.EmbedUser).Msg("sandbox listening")
		if err := e.Start(":" + cfg.Sandbox.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
