// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters. An empty DATABASE_URL
// selects the in-memory stores; a set REDIS_ADDR moves session storage to
// Redis.
type Config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	LogLevel      int           `env:"LOG_LEVEL" envDefault:"0"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"authgate_session"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SeedUsername  string        `env:"SEED_USERNAME"`
	SeedPassword  string        `env:"SEED_PASSWORD"`
	OIDC          OIDC          `envPrefix:"OIDC_"`
}

// OIDC contains SSO provider parameters. SSO is enabled only when both the
// issuer URL and client ID are set.
type OIDC struct {
	IssuerURL    string `env:"ISSUER_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether SSO login is configured.
func (o OIDC) Enabled() bool {
	return o.IssuerURL != "" && o.ClientID != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
