// @title                       Turismo API
// @version                     1.0
// @description                 Tourism platform backend: accounts, roles, emprendedores and reviews.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/api"
	"github.com/turismo/turismo-api/internal/core/service"
	"github.com/turismo/turismo-api/internal/infrastructure/config"
	mongodb "github.com/turismo/turismo-api/internal/infrastructure/db/mongo"
	redisdb "github.com/turismo/turismo-api/internal/infrastructure/db/redis"
	"github.com/turismo/turismo-api/internal/infrastructure/http/handlers"
	"github.com/turismo/turismo-api/internal/infrastructure/queue"
	"github.com/turismo/turismo-api/internal/infrastructure/security"
	"github.com/turismo/turismo-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "turismo-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	tokens, err := security.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	// --- Audit trail ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	audit := queue.NewDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(db), log)
	audit.Start(workerCtx)
	defer func() {
		cancelWorkers()
		audit.Wait()
	}()

	// --- Services ---
	users := mongodb.NewUserRepository(db)
	roles := service.NewRoleService(
		mongodb.NewRoleRepository(db),
		users,
		redisdb.NewRoleCache(rdb, cfg.Redis.RoleCacheTTL),
		log,
	)
	authService, err := service.NewAuthService(users, roles, hasher, tokens, audit, log)
	if err != nil {
		return err
	}
	emprendedores := mongodb.NewEmprendedorRepository(db)

	bootstrap := service.NewBootstrapper(roles, users, hasher, log)
	if err := bootstrap.Run(ctx, service.AdminAccount{Email: cfg.Admin.Email, Password: cfg.Admin.Password}); err != nil {
		return err
	}

	e := api.NewRouter(api.Services{
		Auth:          authService,
		Roles:         roles,
		Users:         service.NewUserService(users, roles, hasher, log),
		Emprendedores: service.NewEmprendedorService(emprendedores, log),
		Reviews:       service.NewReviewService(mongodb.NewReviewRepository(db), emprendedores, log),
	}, api.Options{
		Tokens: tokens,
		Readiness: []handlers.Dependency{
			handlers.MongoDependency(db),
			handlers.RedisDependency(rdb),
			handlers.RoleSeedDependency(roles),
		},
		Log: log,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
