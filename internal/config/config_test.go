package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"token": "abc",
		"log_level": "debug",
		"postgres": {"host": "db.local", "database": "mod", "user": "bot"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "abc" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Postgres.Host != "db.local" || cfg.Postgres.Port != 5432 {
		t.Errorf("postgres defaults not applied: %+v", cfg.Postgres)
	}
	if cfg.ExpiryInterval != 30*time.Second {
		t.Errorf("expiry interval default = %v, want 30s", cfg.ExpiryInterval)
	}
	// An empty listen address would bind port 80.
	if cfg.MetricsAddr != "localhost:9090" {
		t.Errorf("metrics addr default = %q, want localhost:9090", cfg.MetricsAddr)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
token: abc
metrics_addr: "127.0.0.1:9100"
postgres:
  host: db.local
  database: mod
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("metrics addr = %q", cfg.MetricsAddr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"token": "from-file",
		"postgres": {"host": "db.local", "database": "mod"}
	}`)
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("POSTGRES_HOST", "db.override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("token = %q, env should win over file", cfg.Token)
	}
	if cfg.Postgres.Host != "db.override" {
		t.Errorf("postgres host = %q, env should win over file", cfg.Postgres.Host)
	}
}

func TestLoad_MissingTokenFails(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"postgres": {"host": "db.local", "database": "mod"}
	}`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing token")
	}
}

func TestLoad_BadLogLevelFails(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"token": "abc",
		"log_level": "verbose",
		"postgres": {"host": "db.local", "database": "mod"}
	}`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}
