package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.MirrorTTL != 30*time.Minute {
		t.Fatalf("unexpected mirror ttl: %s", cfg.MirrorTTL)
	}
	if cfg.RateBurst != 20 || cfg.RatePerSec != 10 {
		t.Fatalf("unexpected rate limits: %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHOOLGATE_ADDR", ":9090")
	t.Setenv("SCHOOLGATE_PG_DSN", "postgres://localhost/schoolgate")
	t.Setenv("SCHOOLGATE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SCHOOLGATE_MIRROR_TTL", "15m")
	t.Setenv("SCHOOLGATE_RATE_BURST", "50")
	t.Setenv("SCHOOLGATE_RATE_PER_SEC", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr override ignored: %s", cfg.Addr)
	}
	if cfg.PGDSN != "postgres://localhost/schoolgate" {
		t.Fatalf("pg dsn override ignored: %s", cfg.PGDSN)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("redis addr override ignored: %s", cfg.RedisAddr)
	}
	if cfg.MirrorTTL != 15*time.Minute {
		t.Fatalf("mirror ttl override ignored: %s", cfg.MirrorTTL)
	}
	if cfg.RateBurst != 50 || cfg.RatePerSec != 25 {
		t.Fatalf("rate overrides ignored: %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SCHOOLGATE_MIRROR_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable mirror_ttl")
	}

	t.Setenv("SCHOOLGATE_MIRROR_TTL", "-5m")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative mirror_ttl")
	}

	t.Setenv("SCHOOLGATE_MIRROR_TTL", "10m")
	t.Setenv("SCHOOLGATE_RATE_BURST", "many")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable rate_burst")
	}
}
