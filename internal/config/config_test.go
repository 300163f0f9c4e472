package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, 60, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Server.ExposeErrorDetails)

	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, DefaultAPIKey, cfg.Auth.APIKey)

	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.Store.Mongo.URI)
	assert.Equal(t, "shop", cfg.Store.Mongo.Database)
	assert.Equal(t, "products", cfg.Store.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Store.Mongo.ConnectTimeout)

	assert.False(t, cfg.Products.RequireCategory)
	assert.Equal(t, "general", cfg.Products.DefaultCategory)
	assert.True(t, cfg.Products.StrictPrice)
	assert.True(t, cfg.Products.ListEnvelope)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("REQUIRE_CATEGORY", "true")
	t.Setenv("STRICT_PRICE", "false")
	t.Setenv("LIST_ENVELOPE", "false")
	t.Setenv("EXPOSE_ERROR_DETAILS", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "s3cret", cfg.Auth.APIKey)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Products.RequireCategory)
	assert.False(t, cfg.Products.StrictPrice)
	assert.False(t, cfg.Products.ListEnvelope)
	assert.True(t, cfg.Server.ExposeErrorDetails)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Store.Mongo.ConnectTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "soon")
	t.Setenv("AUTH_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Auth.Enabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3000"},
			Auth:     AuthConfig{APIKey: DefaultAPIKey},
			Store:    StoreConfig{Backend: BackendMongo, Mongo: MongoConfig{URI: "mongodb://localhost", Database: "shop", Collection: "products", ConnectTimeout: time.Second}},
			Products: ProductsConfig{DefaultCategory: "general"},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"auth without key", func(c *Config) { c.Auth.Enabled = true; c.Auth.APIKey = "" }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"memory backend ignores mongo", func(c *Config) { c.Store.Backend = BackendMemory; c.Store.Mongo = MongoConfig{} }, false},
		{"missing uri", func(c *Config) { c.Store.Mongo.URI = "" }, true},
		{"missing collection", func(c *Config) { c.Store.Mongo.Collection = "" }, true},
		{"zero connect timeout", func(c *Config) { c.Store.Mongo.ConnectTimeout = 0 }, true},
		{"no default category", func(c *Config) { c.Products.DefaultCategory = "" }, true},
		{"required category needs no default", func(c *Config) { c.Products.DefaultCategory = ""; c.Products.RequireCategory = true }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
