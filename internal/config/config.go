// internal/config/config.go
//
// Process configuration, read from the environment (and an optional .env file).
//
// Every field has a development-friendly default so the server starts with
// no configuration at all. Production deployments must at least set
// JWT_SECRET and APP_ENV=production.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevJWTSecret is the fallback signing secret; refused in production.
const DevJWTSecret = "dev_secret_change_me"

// Config holds all runtime settings.
type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`
	Port     string `env:"PORT"      envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/app.db"`
	WordsFile    string `env:"WORDS_FILE"`

	SessionStore         string        `env:"SESSION_STORE"          envDefault:"sqlite"`
	SessionCookie        string        `env:"SESSION_COOKIE"         envDefault:"wordguess_sid"`
	SessionTTL           time.Duration `env:"SESSION_TTL"            envDefault:"168h"`
	SessionPruneInterval time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"1h"`

	AuthCookie     string `env:"COOKIE_NAME"      envDefault:"wordguess_token"`
	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`

	GitHub OAuthProvider `envPrefix:"GITHUB_"`
}

// OAuthProvider configures the social login provider. Endpoint and profile
// URLs default to GitHub's and are overridable for tests or GitHub Enterprise.
type OAuthProvider struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL" envDefault:"http://localhost:3000/auth/github/callback"`
	AuthURL      string   `env:"AUTH_URL"`
	TokenURL     string   `env:"TOKEN_URL"`
	ProfileURL   string   `env:"PROFILE_URL" envDefault:"https://api.github.com/user"`
	Scopes       []string `env:"SCOPES"      envSeparator:","`
}

// Enabled reports whether social login is configured.
func (p OAuthProvider) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment into a Config and validates it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c Config) Validate() error {
	switch c.SessionStore {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("SESSION_STORE must be memory or sqlite, got %q", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionPruneInterval <= 0 {
		return errors.New("SESSION_PRUNE_INTERVAL must be positive")
	}
	if c.JWTExpiresDays <= 0 {
		return errors.New("JWT_EXPIRES_DAYS must be positive")
	}
	if c.Production() && c.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
