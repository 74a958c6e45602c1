// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Common holds settings shared by every binary.
type Common struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Common) IsDevelopment() bool { return c.AppEnv == "development" }

// IsProduction returns true if running in production mode.
func (c *Common) IsProduction() bool { return c.AppEnv == "production" }

// APIConfig configures the reference marketplace API server.
type APIConfig struct {
	Common

	AppPort     int    `env:"APP_PORT" envDefault:"8000"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Currency for payment intents (ISO 4217, lower case).
	PaymentCurrency string `env:"PAYMENT_CURRENCY" envDefault:"gbp"`
	// When true the sandbox gateway reports intents as succeeded on first
	// retrieval, standing in for client-side card confirmation.
	SandboxAutoConfirm bool `env:"SANDBOX_AUTO_CONFIRM" envDefault:"true"`
	// Flat fee added to orders delivered to the buyer's address.
	DeliveryFee string `env:"DELIVERY_FEE" envDefault:"3.50"`

	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Apply the embedded schema on startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"false"`
}

// WebConfig configures the storefront web server.
type WebConfig struct {
	Common

	WebPort      int           `env:"WEB_PORT" envDefault:"8080"`
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout   time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	RedisURL     string        `env:"REDIS_URL,required"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// CLIConfig holds marketctl defaults. Flags override every field.
type CLIConfig struct {
	APIURL      string        `env:"MARKETPLACE_API_URL" envDefault:"http://localhost:8000/api"`
	SessionFile string        `env:"MARKETCTL_SESSION_FILE"`
	Timeout     time.Duration `env:"MARKETCTL_TIMEOUT" envDefault:"15s"`
}

// LoadDotEnv reads .env if it exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadAPI parses the API server configuration.
func LoadAPI() (*APIConfig, error) {
	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("JWT_SECRET must be at least 16 characters")
	}
	return cfg, nil
}

// LoadWeb parses the storefront configuration.
func LoadWeb() (*WebConfig, error) {
	cfg := &WebConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadCLI parses the marketctl defaults.
func LoadCLI() (*CLIConfig, error) {
	cfg := &CLIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
