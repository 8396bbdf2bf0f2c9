package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORTATTR_PORT", "LOG_LEVEL", "DEV_MODE", "PORTATTR_WORKERS",
		"PORTATTR_RATE_LIMIT", "PORTATTR_RATE_BURST", "PORTATTR_MAX_BODY_MB", "PORTATTR_CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8002, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 20.0, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.Equal(t, int64(16<<20), cfg.MaxBodyBytes())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORTATTR_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("PORTATTR_WORKERS", "3")
	t.Setenv("PORTATTR_RATE_LIMIT", "2.5")
	t.Setenv("PORTATTR_RATE_BURST", "5")
	t.Setenv("PORTATTR_MAX_BODY_MB", "1")
	t.Setenv("PORTATTR_CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORTATTR_PORT", "not-a-port")
	t.Setenv("DEV_MODE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8002, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8002, Workers: 1, RateLimit: 1, RateBurst: 1, MaxBodyMB: 1, CORSOrigins: []string{"*"}}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"no rate", func(c *Config) { c.RateLimit = 0 }},
		{"no burst", func(c *Config) { c.RateBurst = -1 }},
		{"no body", func(c *Config) { c.MaxBodyMB = 0 }},
		{"no origins", func(c *Config) { c.CORSOrigins = nil }},
	}

	assert.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	t.Setenv("PORTATTR_WORKERS", "-1")

	_, err := Load()
	assert.Error(t, err)
}
