package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://www.amazon.com", cfg.Scraper.BaseURL)
	assert.Equal(t, 1*time.Second, cfg.Scraper.RequestDelayMin)
	assert.Equal(t, 3*time.Second, cfg.Scraper.RequestDelayMax)
	assert.Equal(t, 3, cfg.Scraper.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.NotEmpty(t, cfg.Scraper.UserAgents)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Database.URL)

	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REQUEST_DELAY_MIN", "0.5")
	t.Setenv("REQUEST_DELAY_MAX", "2")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("TIMEOUT", "10")
	t.Setenv("BASE_URL", "https://www.amazon.co.uk")
	t.Setenv("SCRAPER_USER_AGENTS", "agent-a,agent-b")
	t.Setenv("RATE_LIMIT_REQUESTS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.RequestDelayMin)
	assert.Equal(t, 2*time.Second, cfg.Scraper.RequestDelayMax)
	assert.Equal(t, 5, cfg.Scraper.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "https://www.amazon.co.uk", cfg.Scraper.BaseURL)
	assert.Equal(t, []string{"agent-a", "agent-b"}, cfg.Scraper.UserAgents)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerWindow)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"delay min above max", func(c *Config) {
			c.Scraper.RequestDelayMin = 5 * time.Second
			c.Scraper.RequestDelayMax = 1 * time.Second
		}},
		{"zero retries", func(c *Config) {
			c.Scraper.MaxRetries = 0
		}},
		{"no user agents", func(c *Config) {
			c.Scraper.UserAgents = nil
		}},
		{"zero rate limit", func(c *Config) {
			c.RateLimit.RequestsPerWindow = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
