package shared

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOTELS_CONFIG", "APP_ENV", "HTTP_ADDR", "METRICS_ADDR", "MYSQL_DSN", "DEFAULT_STRATEGY",
		"DB_MAX_OPEN_CONNS", "ENRICH_WORKERS", "RATE_LIMIT_RPS", "REQUEST_TIMEOUT_SECONDS", "CORS_ORIGINS",
		"SEED_FILE", "SEED_WORKERS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultStrategy != "one-request" || c.EnrichWorkers != 1 || c.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "hotels.yaml")
	yml := "http_addr: \":9000\"\n" +
		"default_strategy: unoptimized\n" +
		"enrich_workers: 4\n" +
		"cors_origins: [\"https://a.example\"]\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("HOTELS_CONFIG", path)
	t.Setenv("ENRICH_WORKERS", "8")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":9000" || c.DefaultStrategy != "unoptimized" {
		t.Fatalf("yaml not applied: %+v", c)
	}
	if c.EnrichWorkers != 8 || c.RequestTimeout != 3*time.Second {
		t.Fatalf("env must win over yaml: %+v", c)
	}
	if !reflect.DeepEqual(c.CORSOrigins, []string{"https://a.example"}) {
		t.Fatalf("cors: %v", c.CORSOrigins)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("enrich_workers: [oops"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("HOTELS_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestLoad_ClampsWorkers(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENRICH_WORKERS", "0")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.EnrichWorkers != 1 {
		t.Fatalf("workers = %d, want 1", c.EnrichWorkers)
	}
	if got := splitList(" a, ,b "); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("splitList: %v", got)
	}
}
