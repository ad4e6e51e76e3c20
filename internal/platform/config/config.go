package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	StoreDriver        string
	MigrationsPath     string
	LogLevel           slog.Level
	JWTSecret          string
	JWTIssuer          string
	RateLimit          string
	CORSAllowedOrigins []string
	LedgerPageSize     int

	AIProvider           string
	AIModel              string
	AIAPIKey             string
	AIBaseURL            string
	AITimeout            time.Duration
	AIBreakerMaxFailures uint32
	AIBreakerOpenTimeout time.Duration

	RedisURL      string
	EventsChannel string
}

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", insecureJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LEDGER_PAGE_SIZE", 100)
	viper.SetDefault("AI_PROVIDER", "mock")
	viper.SetDefault("AI_MODEL", "")
	viper.SetDefault("AI_API_KEY", "")
	viper.SetDefault("AI_BASE_URL", "")
	viper.SetDefault("AI_TIMEOUT", "30s")
	viper.SetDefault("AI_BREAKER_MAX_FAILURES", 5)
	viper.SetDefault("AI_BREAKER_OPEN_TIMEOUT", "60s")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("EVENTS_CHANNEL", "ledger.events")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:    strings.ToLower(viper.GetString("STORE_DRIVER")),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
		LedgerPageSize: viper.GetInt("LEDGER_PAGE_SIZE"),
		AIProvider:     strings.ToLower(viper.GetString("AI_PROVIDER")),
		AIModel:        viper.GetString("AI_MODEL"),
		AIAPIKey:       viper.GetString("AI_API_KEY"),
		AIBaseURL:      viper.GetString("AI_BASE_URL"),
		RedisURL:       viper.GetString("REDIS_URL"),
		EventsChannel:  viper.GetString("EVENTS_CHANNEL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureJWTSecret
		slog.Warn("JWT_SECRET not set, using default insecure key")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		slog.Warn("Invalid LOG_LEVEL, using info", slog.String("value", viper.GetString("LOG_LEVEL")))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.LedgerPageSize <= 0 {
		slog.Warn("Invalid LEDGER_PAGE_SIZE, using default", slog.Int("value", cfg.LedgerPageSize))
		cfg.LedgerPageSize = 100
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.AITimeout = durationOrDefault("AI_TIMEOUT", 30*time.Second)
	cfg.AIBreakerOpenTimeout = durationOrDefault("AI_BREAKER_OPEN_TIMEOUT", time.Minute)
	maxFailures := viper.GetInt("AI_BREAKER_MAX_FAILURES")
	if maxFailures <= 0 {
		slog.Warn("Invalid AI_BREAKER_MAX_FAILURES, using default", slog.Int("value", maxFailures))
		maxFailures = 5
	}
	cfg.AIBreakerMaxFailures = uint32(maxFailures)

	return cfg, nil
}

// durationOrDefault parses a duration key, falling back with a warning.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return d
}
