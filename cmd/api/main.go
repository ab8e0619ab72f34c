package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"schoolgate.dev/internal/access"
	"schoolgate.dev/internal/config"
	"schoolgate.dev/internal/httpapi"
	"schoolgate.dev/internal/mirror"
	"schoolgate.dev/internal/obs"
	"schoolgate.dev/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.PGDSN == "" {
		log.Fatal("SCHOOLGATE_PG_DSN is required")
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	store, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	accessSvc, err := access.NewService(store)
	if err != nil {
		log.Fatalf("access service: %v", err)
	}

	stores := []mirror.Store{mirror.NewMemoryStore()}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rs, err := mirror.NewRedisStore(redisClient, 2*cfg.MirrorTTL)
		if err != nil {
			log.Fatalf("mirror redis store: %v", err)
		}
		stores = append(stores, rs)
	}
	m, err := mirror.New(stores, mirror.WithTTL(cfg.MirrorTTL))
	if err != nil {
		log.Fatalf("mirror: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, store, accessSvc, m)
	api.SetRateLimits(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting schoolgate-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Println("Stopped")
}
