// Package main is the entry point for the onboarding wizard API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/domain/session"
	"onboarding/internal/domain/snapshot"
	"onboarding/internal/domain/wizard"
	v1 "onboarding/internal/infrastructure/http/v1"
	"onboarding/internal/infrastructure/http/v1/middleware"
	"onboarding/internal/infrastructure/metrics"
	"onboarding/internal/infrastructure/storage"
	"onboarding/pkg/logger"
)

const version = "0.1.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
		Encoding:    getEnv("LOG_FORMAT", ""),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting onboarding server")

	// --- Catalog and rules ---
	cat, err := loadCatalog(getEnv("CATALOG_FILE", ""))
	if err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}
	engine := completion.DefaultEngine()
	log.Infow("catalog loaded",
		"members", len(cat.Members()),
		"accounts", len(cat.Accounts()),
		"registrations", len(cat.Registrations()),
	)

	// --- Snapshot backend ---
	backend, err := storage.Open(ctx, storage.Config{
		Kind:        getEnv("SNAPSHOT_BACKEND", storage.KindMemory),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		TTL:         getEnvDuration("SNAPSHOT_TTL", 0),

		DatabaseMaxConns: int32(getEnvInt("DATABASE_MAX_CONNS", 0)),
	}, log)
	if err != nil {
		log.Fatalw("failed to open snapshot backend", "error", err)
	}
	defer backend.Close()

	// --- Metrics ---
	metricsEnabled := getEnv("METRICS_ENABLED", "true") == "true"
	var (
		m           *metrics.Metrics
		metricsHTTP http.Handler
		recorder    wizard.Recorder
		reqObserver middleware.RequestObserver
	)
	if metricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHTTP = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		recorder = m
		reqObserver = m
	}

	// --- Debounced snapshot writer ---
	writerCfg := snapshot.DefaultWriterConfig()
	writerCfg.Delay = getEnvDuration("SNAPSHOT_DEBOUNCE", writerCfg.Delay)
	if m != nil {
		writerCfg.OnWrite = m.SnapshotWritten
	}
	writer := snapshot.NewDebouncedWriter(writerCfg, backend.Store, log)

	// --- Wizard service ---
	svc := wizard.NewService(wizard.Config{
		Catalog: cat,
		Engine:  engine,
		Loader:  snapshot.NewLoader(backend.Store),
		Writer:  writer,
		Metrics: recorder,
	})

	// --- Session tokens ---
	tokenCfg := session.DefaultTokenConfig(getEnv("SESSION_SECRET", "change-me-in-production"))
	tokenCfg.TTL = getEnvDuration("SESSION_TTL", tokenCfg.TTL)
	tokens, err := session.NewTokenService(tokenCfg)
	if err != nil {
		log.Fatalw("failed to create token service", "error", err)
	}

	// --- Metadata Registry ---
	metadataRegistry := setupMetadataRegistry(cat, engine)
	log.Info("metadata registry initialized")

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Wizard:           svc,
		Tokens:           tokens,
		Logger:           log,
		Store:            backend,
		Backend:          backend.Kind,
		Version:          version,
		MetadataRegistry: metadataRegistry,
		RequestObserver:  reqObserver,
		MetricsHandler:   metricsHTTP,
	})

	// --- Idle session eviction ---
	evictCtx, stopEvict := context.WithCancel(ctx)
	defer stopEvict()
	go evictIdle(evictCtx, svc, getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute), log)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "backend", backend.Kind)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopEvict()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	// Pending snapshot writes must land before the backend closes.
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Errorw("failed to flush pending snapshots", "error", err)
	}

	log.Info("server stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Load(data)
}

func evictIdle(ctx context.Context, svc *wizard.Service, idle time.Duration, log *logger.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.EvictIdle(ctx, idle); n > 0 {
				log.Infow("evicted idle sessions", "count", n)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
