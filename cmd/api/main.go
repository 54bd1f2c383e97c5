package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/devlog-hq/devlog/internal/api"
	"github.com/devlog-hq/devlog/internal/auth/revocation"
	"github.com/devlog-hq/devlog/internal/auth/token"
	"github.com/devlog-hq/devlog/internal/auth/totp"
	"github.com/devlog-hq/devlog/internal/core/service"
	"github.com/devlog-hq/devlog/internal/infrastructure/config"
	"github.com/devlog-hq/devlog/internal/infrastructure/db/postgres"
	redisdb "github.com/devlog-hq/devlog/internal/infrastructure/db/redis"
	"github.com/devlog-hq/devlog/pkg/logger"
)

// @title        Devlog API
// @version      1.0
// @description  Authenticated devlog time-tracking API with mandatory TOTP two-factor authentication.
// @BasePath     /api
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// Revocation registry: in-memory by default, Redis when configured. The
	// memory mode forgets revocations on restart; Redis mode does not.
	var registry revocation.Registry = revocation.NewMemoryRegistry()
	deps := api.Dependencies{Logger: log}
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rdb.Close()
		registry = revocation.NewRedisRegistry(rdb)
		deps.Redis = rdb
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis revocation registry")
	} else {
		log.Info().Msg("using in-memory revocation registry")
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.SessionTTL, registry)
	totpMgr := totp.NewManager(cfg.TOTPIssuer)
	users := postgres.NewUserRepository(db)
	projects := postgres.NewProjectRepository(db)
	logs := postgres.NewLogRepository(db)

	deps.DB = db
	deps.Tokens = tokens
	deps.AuthService = service.NewAuthService(users, totpMgr, tokens, registry, log)
	deps.DevlogService = service.NewDevlogService(projects, logs)

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
