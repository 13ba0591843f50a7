package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/time/rate"
)

// devSessionSecret is only acceptable for local development
const devSessionSecret = "roomchat-dev-secret-change-me-please"

// Config holds all application configuration
type Config struct {
	// Server
	Port string `envconfig:"PORT" default:"8080"`

	// Security
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080,http://localhost:3000"`
	SessionSecret  string        `envconfig:"SESSION_SECRET" default:"roomchat-dev-secret-change-me-please"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	SecureCookies  bool          `envconfig:"SECURE_COOKIES" default:"false"`

	// Rate Limiting
	RateLimitAPI      float64 `envconfig:"RATE_LIMIT_API" default:"10"`
	RateLimitWS       float64 `envconfig:"RATE_LIMIT_WS" default:"5"`
	RateLimitStrict   float64 `envconfig:"RATE_LIMIT_STRICT" default:"2"`
	RateLimitMessages float64 `envconfig:"RATE_LIMIT_MESSAGES" default:"0"` // per connection, 0 disables
	MessageBurst      int     `envconfig:"MESSAGE_BURST" default:"10"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"` // debug, info, warn, error, silent
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// WebSocket
	MaxMessageSize int `envconfig:"MAX_MESSAGE_SIZE" default:"4096"`
	SendBufferSize int `envconfig:"SEND_BUFFER_SIZE" default:"256"`

	// Storage
	DBPath     string `envconfig:"DB_PATH" default:"./data"`
	DBInMemory bool   `envconfig:"DB_IN_MEMORY" default:"false"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// Missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 bytes"))
	}
	if c.MaxMessageSize <= 0 {
		errs = append(errs, errors.New("MAX_MESSAGE_SIZE must be positive"))
	}
	if c.SendBufferSize <= 0 {
		errs = append(errs, errors.New("SEND_BUFFER_SIZE must be positive"))
	}
	if c.RateLimitMessages < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MESSAGES must not be negative"))
	}
	if c.RateLimitMessages > 0 && c.MessageBurst <= 0 {
		errs = append(errs, errors.New("MESSAGE_BURST must be positive when RATE_LIMIT_MESSAGES is set"))
	}
	if !c.DBInMemory && c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required unless DB_IN_MEMORY is set"))
	}
	return errors.Join(errs...)
}

// UsesDevSecret reports whether the built-in development secret is active
func (c *Config) UsesDevSecret() bool {
	return c.SessionSecret == devSessionSecret
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Limit converts a requests-per-second setting to a rate.Limit.
// Zero or less means unlimited.
func Limit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

// parseOrigins trims entries and drops empty ones
func parseOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, p := range origins {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
