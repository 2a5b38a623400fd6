package config

import (
	"fmt"
	"os"
	"strconv"

	apperrors "github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Overpass OverpassConfig
	Advice   AdviceConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// OpenAIConfig holds configuration for the chat-completion endpoint
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
	RateLimitRPM   int
	RateLimitBurst int
}

// OverpassConfig holds configuration for the Overpass geo lookup
type OverpassConfig struct {
	URL            string
	RadiusMeters   int
	TimeoutSeconds int
}

// AdviceConfig holds advisory pipeline configuration
type AdviceConfig struct {
	PharmacyEnrichmentEnabled bool
	PharmacyProvider          string
	MaxOutboundRequests       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 30),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Overpass: OverpassConfig{
			URL:            getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			RadiusMeters:   getEnvAsInt("OVERPASS_RADIUS_METERS", 3000),
			TimeoutSeconds: getEnvAsInt("OVERPASS_TIMEOUT_SECONDS", 10),
		},
		Advice: AdviceConfig{
			PharmacyEnrichmentEnabled: getEnvAsBool("PHARMACY_ENRICHMENT_ENABLED", true),
			PharmacyProvider:          getEnv("PHARMACY_PROVIDER", "overpass"),
			MaxOutboundRequests:       getEnvAsInt("MAX_OUTBOUND_REQUESTS", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "symptom-advisor"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// Validate checks that required configuration is present. A missing model
// API key is a structured configuration error surfaced at startup instead
// of a console warning.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return apperrors.NewConfigurationError("OPENAI_API_KEY is required")
	}
	if c.OpenAI.BaseURL == "" {
		return apperrors.NewConfigurationError("OPENAI_BASE_URL must not be empty")
	}
	if c.Overpass.RadiusMeters <= 0 {
		return apperrors.NewConfigurationError("OVERPASS_RADIUS_METERS must be positive")
	}
	if c.Advice.MaxOutboundRequests <= 0 {
		return apperrors.NewConfigurationError("MAX_OUTBOUND_REQUESTS must be positive")
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
