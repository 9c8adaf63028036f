package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Breaker.MaxFailures != 3 {
		t.Errorf("expected breaker max_failures 3, got %d", cfg.Breaker.MaxFailures)
	}
	if cfg.Breaker.Timeout != 2*time.Minute {
		t.Errorf("expected breaker timeout 2m, got %v", cfg.Breaker.Timeout)
	}
	if cfg.ClearLead.Timeout != 15*time.Second {
		t.Errorf("expected clearlead timeout 15s, got %v", cfg.ClearLead.Timeout)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
clearlead:
  url: "https://enrich.example.com"
  timeout: 5s
breaker:
  max_failures: 5
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.ClearLead.URL != "https://enrich.example.com" {
		t.Errorf("expected overridden clearlead URL, got %s", cfg.ClearLead.URL)
	}
	if cfg.ClearLead.Timeout != 5*time.Second {
		t.Errorf("expected clearlead timeout 5s, got %v", cfg.ClearLead.Timeout)
	}
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("expected max_failures 5, got %d", cfg.Breaker.MaxFailures)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("LODESTAR_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("CLEARLEAD_API_KEY", "cl_test_key")
	t.Setenv("LODESTAR_BREAKER_TIMEOUT", "1m")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.ClearLead.APIKey != "cl_test_key" {
		t.Errorf("expected api key override, got %s", cfg.ClearLead.APIKey)
	}
	if cfg.Breaker.Timeout != time.Minute {
		t.Errorf("expected breaker timeout 1m, got %v", cfg.Breaker.Timeout)
	}
}

func TestValidateRejectsZeroThreshold(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.Enabled = false
	cfg.Breaker.MaxFailures = 0
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for breaker.max_failures = 0")
	}
}

func TestValidateRequiresJWTSecretWhenAuthEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = ""
	if err := validate(&cfg); err == nil {
		t.Fatal("expected error for missing jwt_secret")
	}
}
