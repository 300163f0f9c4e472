package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIKey is used by the auth gate when API_KEY is unset
const DefaultAPIKey = "change-me"

// Supported store backends
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Products ProductsConfig
	Metrics  MetricsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	RequestTimeout  int
	AllowedOrigins  []string
	// ExposeErrorDetails adds the underlying error message to 500 responses
	ExposeErrorDetails bool
}

type AuthConfig struct {
	Enabled bool
	APIKey  string // Shared secret expected in the x-api-key header
}

type StoreConfig struct {
	Backend string
	Mongo   MongoConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// ProductsConfig selects per-revision API behaviour
type ProductsConfig struct {
	RequireCategory bool
	DefaultCategory string
	StrictPrice     bool
	ListEnvelope    bool // {count, products} instead of a bare array
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			Host:               getEnv("HOST", "0.0.0.0"),
			ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout:    getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			RequestTimeout:     getEnvAsInt("REQUEST_TIMEOUT", 60),
			AllowedOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ExposeErrorDetails: getEnvAsBool("EXPOSE_ERROR_DETAILS", false),
		},
		Auth: AuthConfig{
			Enabled: getEnvAsBool("AUTH_ENABLED", false),
			APIKey:  getEnv("API_KEY", DefaultAPIKey),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
			Mongo: MongoConfig{
				URI:            getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
				Database:       getEnv("MONGO_DATABASE", "shop"),
				Collection:     getEnv("MONGO_COLLECTION", "products"),
				ConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
			},
		},
		Products: ProductsConfig{
			RequireCategory: getEnvAsBool("REQUIRE_CATEGORY", false),
			DefaultCategory: getEnv("DEFAULT_CATEGORY", "general"),
			StrictPrice:     getEnvAsBool("STRICT_PRICE", true),
			ListEnvelope:    getEnvAsBool("LIST_ENVELOPE", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("API_KEY must not be empty when AUTH_ENABLED is set")
	}

	switch c.Store.Backend {
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return fmt.Errorf("MONGO_DATABASE and MONGO_COLLECTION are required")
		}
		if c.Store.Mongo.ConnectTimeout <= 0 {
			return fmt.Errorf("MONGO_CONNECT_TIMEOUT must be positive")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid store backend: %s (must be mongo or memory)", c.Store.Backend)
	}

	if c.Products.DefaultCategory == "" && !c.Products.RequireCategory {
		return fmt.Errorf("DEFAULT_CATEGORY is required when REQUIRE_CATEGORY is false")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
