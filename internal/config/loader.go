package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "lodestar.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "LODESTAR_PORT")
	setString(&cfg.Server.CORSOrigin, "LODESTAR_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "LODESTAR_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "LODESTAR_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "LODESTAR_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "LODESTAR_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "LODESTAR_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.ClearLead.URL, "CLEARLEAD_URL")
	setString(&cfg.ClearLead.APIKey, "CLEARLEAD_API_KEY")
	setDuration(&cfg.ClearLead.Timeout, "CLEARLEAD_TIMEOUT")
	setString(&cfg.Logging.Level, "LODESTAR_LOG_LEVEL")
	setString(&cfg.Logging.Service, "LODESTAR_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "LODESTAR_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "LODESTAR_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "LODESTAR_RATE_RPS")
	setInt(&cfg.Rate.Burst, "LODESTAR_RATE_BURST")
	setInt64(&cfg.Cache.MaxSizeMB, "LODESTAR_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.StatusTTL, "LODESTAR_CACHE_STATUS_TTL")
	setBool(&cfg.Auth.Enabled, "LODESTAR_AUTH_ENABLED")
	setString(&cfg.Auth.JWTSecret, "LODESTAR_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "LODESTAR_ACCESS_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "LODESTAR_BCRYPT_COST")
	setString(&cfg.Auth.DefaultAdminEmail, "LODESTAR_ADMIN_EMAIL")
	setString(&cfg.Auth.DefaultAdminPass, "LODESTAR_ADMIN_PASS")
	setDuration(&cfg.Enrichment.RunTimeout, "LODESTAR_ENRICHMENT_RUN_TIMEOUT")
	setInt64(&cfg.Enrichment.MaxConcurrent, "LODESTAR_ENRICHMENT_MAX_CONCURRENT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Breaker.Timeout < 0 {
		return errors.New("breaker.timeout must not be negative")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Enrichment.MaxConcurrent < 1 {
		return errors.New("enrichment.max_concurrent must be >= 1")
	}
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
