package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/antispam"
	"github.com/grantscout/discovery/internal/blacklist"
	"github.com/grantscout/discovery/internal/circuitbreaker"
	cfg "github.com/grantscout/discovery/internal/config"
	"github.com/grantscout/discovery/internal/db"
	"github.com/grantscout/discovery/internal/health"
	"github.com/grantscout/discovery/internal/httpapi"
	"github.com/grantscout/discovery/internal/llm"
	"github.com/grantscout/discovery/internal/processor"
	"github.com/grantscout/discovery/internal/querygen"
	"github.com/grantscout/discovery/internal/scoring"
	"github.com/grantscout/discovery/internal/search"
	"github.com/grantscout/discovery/internal/taxonomy"
	"github.com/grantscout/discovery/internal/workflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	configPath := os.Getenv("DISCOVERY_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/discovery.yaml"
	}
	config, err := cfg.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Scoring and antispam tables, hot-reloadable from disk.
	tables, err := cfg.NewTableManager(config.TablesPath, logger)
	if err != nil {
		logger.Fatal("Failed to load tables", zap.String("path", config.TablesPath), zap.Error(err))
	}
	if err := tables.Start(ctx); err != nil {
		logger.Fatal("Failed to start tables watcher", zap.Error(err))
	}
	defer tables.Stop()

	// Postgres.
	dbClient, err := db.NewClient(&db.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Database,
		SSLMode:         config.Database.SSLMode,
		MaxConnections:  config.Database.MaxConnections,
		IdleConnections: config.Database.IdleConnections,
		MaxLifetime:     config.Database.MaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbClient.Close()

	// Redis, wrapped in a circuit breaker for the blacklist cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	defer redisClient.Close()
	redisWrapper := circuitbreaker.NewRedisWrapper(redisClient, "blacklist-cache", logger)
	if err := redisWrapper.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable at startup, blacklist checks fall back to the store", zap.Error(err))
	}

	blacklistCache := blacklist.NewCache(redisWrapper, dbClient, config.BlacklistCache.TTL, logger)

	// Query generation: LLM with deterministic template fallback, LRU cached.
	llmClient := llm.NewClient(llm.Config{
		BaseURL:     config.LLM.BaseURL,
		APIKey:      config.LLM.APIKey,
		Model:       config.LLM.Model,
		Timeout:     config.LLM.Timeout,
		MaxTokens:   config.LLM.MaxTokens,
		Temperature: config.LLM.Temperature,
	}, logger)
	queryCache := querygen.NewCache(config.QueryCache.MaxSize, config.QueryCache.TTL)
	queryService := querygen.NewService(llmClient, queryCache, dbClient, logger)

	// Search adapters, one per enabled engine.
	adapters := make(map[taxonomy.Engine]search.Adapter)
	for _, engine := range taxonomy.AllEngines() {
		adapterCfg := config.AdapterFor(string(engine))
		if !adapterCfg.Enabled {
			continue
		}
		adapter, err := search.NewAdapter(engine, adapterCfg, logger)
		if err != nil {
			logger.Fatal("Failed to build search adapter", zap.String("engine", string(engine)), zap.Error(err))
		}
		adapters[engine] = adapter
		logger.Info("Search adapter enabled", zap.String("engine", string(engine)))
	}
	if len(adapters) == 0 {
		logger.Fatal("No search adapters enabled")
	}

	threshold, err := decimal.NewFromString(config.Confidence.Threshold)
	if err != nil {
		logger.Fatal("Invalid confidence threshold", zap.String("threshold", config.Confidence.Threshold), zap.Error(err))
	}

	resultProcessor := processor.New(
		antispam.NewFilter(tables, logger),
		blacklistCache,
		scoring.NewScorer(tables, logger),
		dbClient,
		logger,
	)

	orchestrator := workflow.New(dbClient, queryService, adapters, resultProcessor, workflow.Config{
		QueriesPerEngine: config.Workflow.MaxQueriesPerEngine,
		TotalTimeout:     config.Workflow.TotalTimeout,
		MaxConcurrency:   config.Workflow.MaxConcurrency,
		Threshold:        threshold,
	}, logger)

	// Health manager with per-dependency checkers.
	healthManager := health.NewManager(logger)
	mustRegister := func(c health.Checker) {
		if err := healthManager.RegisterChecker(c); err != nil {
			logger.Fatal("Failed to register health checker", zap.Error(err))
		}
	}
	mustRegister(health.NewDatabaseHealthChecker(dbClient.Wrapper(), logger))
	mustRegister(health.NewRedisHealthChecker(redisWrapper, logger))
	mustRegister(health.NewLLMHealthChecker(config.LLM.BaseURL, logger))
	mustRegister(health.NewAdapterHealthChecker(adapters, logger))
	if err := healthManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start health manager", zap.Error(err))
	}
	defer healthManager.Stop()

	// Discovery API server.
	apiServer := httpapi.StartDiscoveryServer(config.Server.Port, config.Server.AuthToken, orchestrator, dbClient, logger)

	// Admin server: metrics and health probes.
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	health.NewHTTPHandler(healthManager, logger).RegisterRoutes(adminMux)
	adminServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Server.MetricsPort),
		Handler:      adminMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("Starting admin server", zap.Int("port", config.Server.MetricsPort))
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Admin server failed", zap.Error(err))
		}
	}()

	logger.Info("Discovery service started",
		zap.Int("api_port", config.Server.Port),
		zap.Int("admin_port", config.Server.MetricsPort),
		zap.Int("adapters", len(adapters)),
	)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", zap.Error(err))
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Admin server shutdown failed", zap.Error(err))
	}

	logger.Info("Discovery service stopped")
}
