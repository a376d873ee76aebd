// In file: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/cache"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/metrics"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/service"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Prompt Alchemy Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	logger := newLogger(os.Getenv("GIN_MODE"))
	log.Println("✅ Configuration loaded.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. INITIALIZE SERVICES
	resultCache, usage := initializeStorage(ctx, cfg, logger)

	providers, closers, err := initializeProviders(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var router *llm.Router
	var enhanced service.EnhancedAnalyzer
	if len(providers) > 0 {
		routerCfg := cfg.File.Router()
		if cfg.HealthCheckInterval > 0 && routerCfg.Thresholds.HealthCheckStaleness == 0 {
			routerCfg.Thresholds.HealthCheckStaleness = 3 * cfg.HealthCheckInterval
		}
		router = llm.NewRouter(providers, usage, routerCfg, logger)
		enhanced = llm.NewEnhancedAnalyzer(router, cfg.ProviderTimeout, logger)
	} else {
		log.Println("⚠️ No LLM providers configured. Enhanced analysis is disabled.")
	}

	m := metrics.New()
	optimizer := optimize.New(optimize.WithPlatforms(cfg.File.Platforms), optimize.WithLogger(logger))
	svc := service.New(optimizer, resultCache, enhanced, m, logger, service.Config{CacheTTL: cfg.CacheTTL})
	gatewayHandler := NewGatewayHandler(svc, router, m)
	log.Println("✅ All services initialized.")

	// 3. START BACKGROUND PROCESSES
	if router != nil && cfg.HealthCheckInterval > 0 {
		go startHealthChecker(ctx, router, cfg.HealthCheckInterval, cfg.ProviderTimeout)
	}

	// 4. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := newEngine(gatewayHandler, cfg)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// newEngine builds the gin engine with middleware and routes.
func newEngine(h *GatewayHandler, cfg *AppConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware(), timed(h.metrics))
	if cfg.RateLimitRPS > 0 {
		engine.Use(rateLimitMiddleware(newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
		log.Printf("🚦 Rate limiting enabled: %.1f req/s, burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	h.Register(engine)
	return engine
}

func newLogger(ginMode string) *slog.Logger {
	var handler slog.Handler
	if ginMode == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// initializeStorage picks Redis when REDIS_ADDR is set, the in-process cache
// otherwise.
func initializeStorage(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (cache.Cache, llm.UsageTracker) {
	if cfg.RedisAddr == "" {
		mem := cache.NewMemory()
		go mem.StartSweeper(ctx, time.Minute, logger)
		log.Println("✅ Using in-memory result cache (REDIS_ADDR not set).")
		return mem, llm.NewMemoryUsageTracker()
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}
	log.Printf("✅ Connected to Redis at %s.", cfg.RedisAddr)
	return cache.NewRedis(rdb, ""), llm.NewRedisUsageTracker(rdb, logger)
}

// initializeProviders creates a client for every enabled provider.
func initializeProviders(ctx context.Context, cfg *AppConfig, logger *slog.Logger) ([]llm.Provider, []io.Closer, error) {
	var providers []llm.Provider
	var closers []io.Closer
	for _, name := range cfg.EnabledProviders {
		p, err := llm.NewProvider(ctx, name, llm.ClientConfig{
			APIKey:  cfg.APIKeys[name],
			Model:   cfg.File.Model(name),
			Timeout: cfg.ProviderTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		if c, ok := p.(io.Closer); ok {
			closers = append(closers, c)
		}
		providers = append(providers, p)
	}
	log.Printf("✅ %d LLM providers initialized.", len(providers))
	return providers, closers, nil
}

// startHealthChecker proactively checks provider health until ctx ends.
func startHealthChecker(ctx context.Context, router *llm.Router, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("🩺 Health checker started.")
	runChecks := func() {
		log.Println("🩺 Running proactive health checks...")
		for name, healthy := range router.CheckHealth(ctx, timeout) {
			log.Printf("Health check for %s: Healthy = %v", name, healthy)
		}
	}

	runChecks()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runChecks()
		}
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
