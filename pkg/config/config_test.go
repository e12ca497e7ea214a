package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-backend/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 5000, cfg.DB.LockTimeoutMs)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Pricing.ValuedOnlyOverrides)
	assert.True(t, cfg.App.MetricsEnabled)
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PRICING_VALUED_ONLY_OVERRIDES", "false")
	t.Setenv("METRICS_ENABLED", "0")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "1500")
	t.Setenv("DB_FORCE_IPV4", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.False(t, cfg.Pricing.ValuedOnlyOverrides)
	assert.False(t, cfg.App.MetricsEnabled)
	assert.Equal(t, 1500, cfg.DB.LockTimeoutMs)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_StorageInvalido(t *testing.T) {
	t.Setenv("STORAGE", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss/word", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%2Fword@db:5432/erp?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
