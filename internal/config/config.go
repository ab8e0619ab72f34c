// Package config loads service configuration from SCHOOLGATE_* environment
// variables. Everything the core needs at call time (mirror TTL, rate
// limits) is materialized here and passed in at construction, never read
// from the ambient environment mid-request.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SCHOOLGATE_"

// Config holds all tunable service settings.
type Config struct {
	Addr            string
	PGDSN           string
	RedisAddr       string
	MirrorTTL       time.Duration
	RateBurst       int
	RatePerSec      int
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when no environment overrides
// are present. PGDSN and RedisAddr default to empty: without a DSN the
// service refuses to start, without a Redis address the mirror runs on
// its in-process store only.
func Default() Config {
	return Config{
		Addr:            ":8080",
		MirrorTTL:       30 * time.Minute,
		RateBurst:       20,
		RatePerSec:      10,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads SCHOOLGATE_* environment variables over the defaults.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if v := strings.TrimSpace(k.String("addr")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(k.String("pg_dsn")); v != "" {
		cfg.PGDSN = v
	}
	if v := strings.TrimSpace(k.String("redis_addr")); v != "" {
		cfg.RedisAddr = v
	}
	if v := strings.TrimSpace(k.String("mirror_ttl")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse mirror_ttl: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("mirror_ttl must be positive, got %s", ttl)
		}
		cfg.MirrorTTL = ttl
	}
	if v, err := intVar(k, "rate_burst"); err != nil {
		return Config{}, err
	} else if v > 0 {
		cfg.RateBurst = v
	}
	if v, err := intVar(k, "rate_per_sec"); err != nil {
		return Config{}, err
	} else if v > 0 {
		cfg.RatePerSec = v
	}
	if v := strings.TrimSpace(k.String("shutdown_timeout")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

func intVar(k *koanf.Koanf, key string) (int, error) {
	raw := strings.TrimSpace(k.String(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
