package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "production",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		TokenTTLSeconds: 3600,
		DBDriver:        "postgres",
		DBPassword:      "secure-password",
		DBSSLMode:       "require",
		Port:            "5000",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid production", func(*Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Default secret in production", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"Short secret in production", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Short secret in development", func(c *Config) { c.Env = "development"; c.JWTSecret = "short" }, false},
		{"Weak DB password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"Disabled SSL in production", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"Disabled SSL in test", func(c *Config) { c.Env = "test"; c.DBSSLMode = "disable" }, false},
		{"Sqlite ignores DB password", func(c *Config) { c.DBDriver = "sqlite"; c.DBPassword = "" }, false},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Unknown events backend", func(c *Config) { c.EventsBackend = "kafka" }, true},
		{"Zero token ttl", func(c *Config) { c.TokenTTLSeconds = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "  SQLITE ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 3600, cfg.TokenTTLSeconds)
	assert.False(t, cfg.IsProduction())
}
