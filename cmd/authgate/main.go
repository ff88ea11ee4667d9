package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	adapthttp "authgate/internal/adapter/http"
	"authgate/internal/adapter/memory"
	"authgate/internal/adapter/postgres"
	"authgate/internal/adapter/redisstore"
	"authgate/internal/app"
	"authgate/internal/config"
	"authgate/internal/domain"
	"authgate/internal/logger"
	"authgate/internal/password"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	var users domain.UserRepository
	var sessions domain.SessionRepository

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("db open", "error", err)
		}
		defer func() { _ = db.Close() }()
		users = db
		sessions = postgres.NewSessionRepo(db)
	} else {
		log.Info("no DATABASE_URL set, using in-memory storage")
		mem := memory.New()
		users = mem
		sessions = mem.NewSessionRepo()
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping", "error", err)
		}
		sessions = redisstore.NewSessionRepo(client)
	}

	authSvc := app.NewAuthService(users, password.NewHasher(0))
	sessionMgr := app.NewSessionManager(sessions, cfg.SessionCookie, cfg.SessionTTL)

	if cfg.SeedUsername != "" && cfg.SeedPassword != "" {
		email := fmt.Sprintf("%s@localhost", cfg.SeedUsername)
		if err := authSvc.Seed(ctx, cfg.SeedUsername, email, cfg.SeedPassword); err != nil {
			log.Fatal("seed user", "username", cfg.SeedUsername, "error", err)
		}
	}

	oidcCfg, err := buildOIDC(ctx, cfg.OIDC)
	if err != nil {
		log.Fatal("oidc setup", "error", err)
	}

	srv := adapthttp.New(authSvc, sessionMgr, oidcCfg, log)
	log.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("serve", "error", err)
	}
}

func buildOIDC(ctx context.Context, cfg config.OIDC) (adapthttp.OIDCConfig, error) {
	if !cfg.Enabled() {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("discover provider: %w", err)
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
