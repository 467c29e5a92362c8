package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/irdesk")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.WebhookMaxRetries)
	assert.Equal(t, "trial", cfg.DefaultPlan)
	assert.Empty(t, cfg.APIKeys)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/irdesk")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WEBHOOK_BASE_DELAY", "250ms")
	t.Setenv("API_KEYS", " key-a , ,key-b")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.WebhookBaseDelay)
	assert.Equal(t, []string{"key-a", "key-b"}, cfg.APIKeys)
	assert.Equal(t, 5, cfg.LoginRateLimit)
}

func TestLoadConfig_RequiredVariables(t *testing.T) {
	tests := []struct {
		name    string
		dbURL   string
		secret  string
		wantErr string
	}{
		{name: "missing database url", secret: "secret", wantErr: "DATABASE_URL"},
		{name: "missing jwt secret", dbURL: "postgres://localhost/irdesk", wantErr: "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.dbURL)
			t.Setenv("JWT_SECRET", tt.secret)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
