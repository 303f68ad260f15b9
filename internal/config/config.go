package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string        `env:"PORT" env-default:"8080"`
	DatabaseURL string        `env:"DATABASE_URL"`
	StaticDir   string        `env:"STATIC_DIR" env-default:"public"`
	ExportPath  string        `env:"EXPORT_PATH" env-default:"feedback_export.xlsx"`
	CORSOrigins []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	Production  bool          `env:"PRODUCTION" env-default:"false"`
	Render      string        `env:"RENDER"`
	Railway     string        `env:"RAILWAY_ENVIRONMENT"`
	Admin       AdminConfig   `env-prefix:"ADMIN_"`
	Session     SessionConfig `env-prefix:"SESSION_"`
	RedisURL    string        `env:"REDIS_URL"`
	Notify      NotifyConfig

	generatedSecret bool
}

// AdminConfig has no defaults: unset credentials disable login and Basic auth.
type AdminConfig struct {
	User  string `env:"USER"`
	Pass  string `env:"PASS"`
	Token string `env:"TOKEN"`
}

type SessionConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" env-default:"12h"`
}

type NotifyConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"NOTIFY_FROM"`
	To           string `env:"NOTIFY_TO"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; variables set directly in the environment win
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type storeConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// LoadDatabaseURL reads only DATABASE_URL, so offline tools do not need the
// server's session settings.
func LoadDatabaseURL() (string, error) {
	_ = godotenv.Load()

	var cfg storeConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return "", fmt.Errorf("read environment: %w", err)
	}
	return cfg.DatabaseURL, nil
}

func (c *Config) finalize() error {
	if c.Render != "" || c.Railway != "" {
		c.Production = true
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Session.Secret == "" {
		if c.Production {
			return errors.New("SESSION_SECRET is required in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		c.Session.Secret = secret
		c.generatedSecret = true
	}
	return nil
}

// AdminCredentialsSet reports whether both the admin username and password are configured.
func (c *Config) AdminCredentialsSet() bool {
	return c.Admin.User != "" && c.Admin.Pass != ""
}

// EmailNotificationsEnabled reports whether Resend delivery is fully configured.
func (c *Config) EmailNotificationsEnabled() bool {
	return c.Notify.ResendAPIKey != "" && c.Notify.From != "" && c.Notify.To != ""
}

// GeneratedSecret reports whether the session secret was generated at startup.
func (c *Config) GeneratedSecret() bool {
	return c.generatedSecret
}

// NotifyRecipients splits NOTIFY_TO on commas.
func (c *Config) NotifyRecipients() []string {
	var out []string
	for _, to := range strings.Split(c.Notify.To, ",") {
		if to = strings.TrimSpace(to); to != "" {
			out = append(out, to)
		}
	}
	return out
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
