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

	"github.com/joho/godotenv"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/adapters/cache"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/adapters/providers/pharmacy"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/handlers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/routes"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/application/services"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/providers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/openai"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/overpass"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/redis"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/observability"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/retry"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Failed to load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize Redis client; the service works without caching
	var cacheProvider providers.CacheProvider
	var redisClient *redis.Client
	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		var connErr error
		redisClient, connErr = redis.NewClient(&cfg.Redis)
		return connErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Printf("Redis connection attempt %d failed, retrying in %s: %v", attempt, nextDelay, err)
	})
	if err != nil {
		log.Printf("Warning: Redis unavailable, pharmacy lookups will not be cached: %v", err)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize the advice model client
	modelClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	// Initialize the pharmacy provider
	var pharmacyProvider providers.PharmacyProvider
	if cfg.Advice.PharmacyEnrichmentEnabled {
		switch cfg.Advice.PharmacyProvider {
		case "mock":
			log.Println("Using mock pharmacy provider")
			pharmacyProvider = pharmacy.NewMockProvider()
		default:
			overpassClient := overpass.NewClient(&cfg.Overpass)
			pharmacyProvider = pharmacy.NewOverpassProvider(overpassClient, cacheProvider, cfg.Overpass.RadiusMeters, metrics)
		}
	} else {
		log.Println("Pharmacy enrichment disabled by configuration")
	}

	// Initialize services and handlers
	adviceService := services.NewAdviceService(modelClient, pharmacyProvider, cfg.Advice)
	adviceHandler := handlers.NewAdviceHandler(adviceService)

	router := routes.NewRouter(adviceHandler, metrics, cfg.OTEL.ServiceVersion)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
