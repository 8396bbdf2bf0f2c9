// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/portattr/internal/utils"
)

// Config holds application configuration
type Config struct {
	Port        int
	LogLevel    string
	DevMode     bool
	Workers     int      // Risk batch workers
	RateLimit   float64  // Compute requests per second
	RateBurst   int      // Compute request burst
	MaxBodyMB   int      // Request body limit
	CORSOrigins []string // Allowed CORS origins
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvAsInt("PORTATTR_PORT", 8002),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		Workers:     getEnvAsInt("PORTATTR_WORKERS", runtime.NumCPU()),
		RateLimit:   getEnvAsFloat("PORTATTR_RATE_LIMIT", 20),
		RateBurst:   getEnvAsInt("PORTATTR_RATE_BURST", 40),
		MaxBodyMB:   getEnvAsInt("PORTATTR_MAX_BODY_MB", 16),
		CORSOrigins: utils.ParseList(getEnv("PORTATTR_CORS_ORIGINS", "*")),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.MaxBodyMB) << 20
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %g/s burst %d", c.RateLimit, c.RateBurst)
	}
	if c.MaxBodyMB <= 0 {
		return fmt.Errorf("max body size must be positive, got %d MB", c.MaxBodyMB)
	}
	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}
	return nil
}

// Helper functions
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
