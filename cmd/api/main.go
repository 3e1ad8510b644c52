// Command api serves the menu API.
//
// @title                       Menu API
// @version                     1.0
// @description                 Menu resource API behind password login and bearer tokens.
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/menuhub/menu-api/internal/api"
	"github.com/menuhub/menu-api/internal/api/metrics"
	"github.com/menuhub/menu-api/internal/core/ports"
	"github.com/menuhub/menu-api/internal/core/service"
	"github.com/menuhub/menu-api/internal/infrastructure/config"
	"github.com/menuhub/menu-api/internal/infrastructure/db/memory"
	"github.com/menuhub/menu-api/internal/infrastructure/db/mongo"
	"github.com/menuhub/menu-api/internal/infrastructure/db/redis"
	"github.com/menuhub/menu-api/internal/infrastructure/queue"
	"github.com/menuhub/menu-api/pkg/logger"
)

// accountStore is a credential store the rehasher can write upgraded digests to.
type accountStore interface {
	ports.CredentialStore
	ports.DigestWriter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg; fall back to a bare one.
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("refusing to start")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "menu-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokenCfg := service.TokenConfig{
		Secret:     []byte(cfg.Auth.JWTSecret),
		Algorithm:  cfg.Auth.JWTAlgorithm,
		DefaultTTL: cfg.Auth.DefaultTokenTTL,
	}
	issuer, err := service.NewTokenIssuer(tokenCfg)
	if err != nil {
		return err
	}
	validator, err := service.NewTokenValidator(tokenCfg)
	if err != nil {
		return err
	}
	hasher, err := service.NewPasswordHasher(service.HasherConfig{
		Scheme:     cfg.Auth.PasswordScheme,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return err
	}

	seed := memory.DefaultSeedUsers()
	if cfg.Store.SeedUsersFile != "" {
		if seed, err = memory.LoadSeedUsers(cfg.Store.SeedUsersFile); err != nil {
			return err
		}
	}

	var (
		users   accountStore
		menu    ports.MenuRepository
		mongoDB *gomongo.Database
		rdb     *goredis.Client
		idem    ports.IdempotencyStore
	)

	switch cfg.Store.Backend {
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := mongo.Disconnect(client); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()
		mongoDB = db

		userRepo := mongo.NewUserRepository(db)
		menuRepo := mongo.NewMenuRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := menuRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := userRepo.Seed(ctx, seed); err != nil {
			return err
		}
		users, menu = userRepo, menuRepo
	default:
		menuStore, err := memory.OpenMenuFile(cfg.Store.MenuFile)
		if err != nil {
			return err
		}
		users, menu = memory.NewCredentialStore(seed), menuStore
	}
	log.Info().Str("backend", cfg.Store.Backend).Int("seed_users", len(seed)).Msg("stores ready")

	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = redis.NewIdempotencyStore(rdb, 0)
	}

	rehasher := queue.NewRehasher(cfg.Auth.RehashWorkers, hasher, users, logger.Component("rehasher"))
	rehasher.Start(ctx)

	authenticator, err := service.NewAuthenticator(users, hasher, rehasher)
	if err != nil {
		return err
	}
	guard := metrics.NewAuthorizer(service.NewAuthGuard(validator, users))

	e := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(authenticator, issuer, cfg.Auth.AccessTokenTTL, logger.Component("auth")),
		Guard:  guard,
		Menu:   service.NewMenuService(guard, menu, idem, logger.Component("menu")),
		Mongo:  mongoDB,
		Redis:  rdb,
		Logger: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Dur("access_token_ttl", cfg.Auth.AccessTokenTTL).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
