package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_NAME", "MUTATION_TIMEOUT", "QUERY_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBName != "localloop" {
		t.Errorf("DBName = %q, want localloop", cfg.DBName)
	}
	if cfg.MutationTimeout != 8*time.Second {
		t.Errorf("MutationTimeout = %v, want 8s", cfg.MutationTimeout)
	}
	if cfg.QueryTimeout != 5*time.Second {
		t.Errorf("QueryTimeout = %v, want 5s", cfg.QueryTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("MUTATION_TIMEOUT", "10s")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost = %q, want db.internal", cfg.DBHost)
	}
	if cfg.MutationTimeout != 10*time.Second {
		t.Errorf("MutationTimeout = %v, want 10s", cfg.MutationTimeout)
	}
	// Unparseable durations fall back rather than fail.
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 15m fallback", cfg.JWTAccessExpiry)
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "loop")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "localloop")

	dsn := Load().DSN()
	want := "host=localhost user=loop password=secret dbname=localloop port=5432 sslmode=disable TimeZone=UTC"
	if dsn != want {
		t.Errorf("DSN = %q, want %q", dsn, want)
	}
}
