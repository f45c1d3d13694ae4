package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Moneybook", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5, cfg.DB.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_CONNECT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 50, cfg.DB.MaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:secret@db:5432/ledger?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
