// Package config loads the shopauth server settings from a YAML file and
// SHOPAUTH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/tinywasm/customer/internal/logger"
)

// Config holds all server settings.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `mapstructure:"listen_addr"`
	// DatabasePath is the SQLite file holding accounts and sessions.
	DatabasePath string `mapstructure:"database_path"`
	// JWTSecret signs access tokens; at least 32 characters.
	JWTSecret string `mapstructure:"jwt_secret"`
	// SessionTTL is how long a sign-in stays valid (e.g. "24h").
	SessionTTL string `mapstructure:"session_ttl"`
	// ConfirmEmail leaves new accounts pending instead of signing them in.
	ConfirmEmail bool `mapstructure:"confirm_email"`
	// RateLimit is the sign-in/sign-up requests per second allowed per IP.
	RateLimit float64 `mapstructure:"rate_limit"`
	// RateBurst is the request burst allowed per IP.
	RateBurst int `mapstructure:"rate_burst"`
	// TrustProxy takes the client IP from forwarding headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
	// StaticDir is served under /assets (wasm bundle, wasm_exec.js, shop.html).
	StaticDir string `mapstructure:"static_dir"`
	// AnonKey is handed to the browser client as its apikey.
	AnonKey string `mapstructure:"anon_key"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`

	ParsedSessionTTL      time.Duration `mapstructure:"-"`
	ParsedLogLevel        zapcore.Level `mapstructure:"-"`
	ParsedShutdownTimeout time.Duration `mapstructure:"-"`
}

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SHOPAUTH"

	minSecretLength = 32
)

// Static error definitions for better error handling.
var (
	ErrEmptyListenAddr     = errors.New("listen_addr cannot be empty")
	ErrEmptyDatabasePath   = errors.New("database_path cannot be empty")
	ErrShortJWTSecret      = errors.New("jwt_secret must be at least 32 characters")
	ErrInvalidSessionTTL   = errors.New("session_ttl must be at least one second")
	ErrInvalidRateLimit    = errors.New("rate_limit must be positive")
	ErrInvalidRateBurst    = errors.New("rate_burst must be positive")
	ErrUnknownLogLevel     = errors.New("unknown log level")
	ErrInvalidShutdownTime = errors.New("shutdown_timeout must be positive")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_path", "shopauth.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("confirm_email", false)
	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("trust_proxy", false)
	v.SetDefault("static_dir", "public")
	v.SetDefault("anon_key", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", "10s")
}

// LoadConfig reads configFilename (optional) and the environment, then
// validates the result.
func LoadConfig(configFilename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFilename != "" {
		v.SetConfigFile(configFilename)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration and fills the parsed fields.
func ValidateConfig(cfg *Config) error {
	var err error

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return ErrEmptyListenAddr
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return ErrEmptyDatabasePath
	}

	if len(cfg.JWTSecret) < minSecretLength {
		return ErrShortJWTSecret
	}

	cfg.ParsedSessionTTL, err = time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to parse session ttl: %w", err)
	}

	if cfg.ParsedSessionTTL < time.Second {
		return ErrInvalidSessionTTL
	}

	if cfg.RateLimit <= 0 {
		return ErrInvalidRateLimit
	}

	if cfg.RateBurst <= 0 {
		return ErrInvalidRateBurst
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = level

	cfg.ParsedShutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse shutdown timeout: %w", err)
	}

	if cfg.ParsedShutdownTimeout <= 0 {
		return ErrInvalidShutdownTime
	}

	return nil
}
