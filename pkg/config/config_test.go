package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TOURIGO_UPLOADS_BASE_URL", "https://uploads.example.com")
	t.Setenv("TOURIGO_TOUR_API_BASE_URL", "https://api.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, AppEnvDev, cfg.App.Env)
	require.Equal(t, "info", cfg.App.LogLevel)
	require.Equal(t, 7200, cfg.Cart.TTLMinutes)
	require.Equal(t, "cart", cfg.Cart.KeyPrefix)
	require.Equal(t, 6, cfg.Wizard.TotalSteps)
	require.Equal(t, 10, cfg.Redis.PoolSize)
	require.Equal(t, 30*time.Second, cfg.Uploads.Timeout)
	require.Equal(t, 20, cfg.Uploads.MaxUploadMB)
	require.Equal(t, 15*time.Second, cfg.TourAPI.Timeout)
}

func TestLoadRequiresUploadBaseURL(t *testing.T) {
	t.Setenv("TOURIGO_UPLOADS_BASE_URL", "")
	t.Setenv("TOURIGO_TOUR_API_BASE_URL", "https://api.example.com")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOURIGO_APP_ENV", "production")
	t.Setenv("TOURIGO_CART_TTL_MINUTES", "60")
	t.Setenv("TOURIGO_WIZARD_TOTAL_STEPS", "4")
	t.Setenv("TOURIGO_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.App.IsProd())
	require.False(t, cfg.App.IsDev())
	require.Equal(t, time.Hour, cfg.Cart.TTL())
	require.Equal(t, 4, cfg.Wizard.TotalSteps)
	require.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestCartTTL(t *testing.T) {
	t.Parallel()

	require.Equal(t, 7200*time.Minute, CartConfig{TTLMinutes: 7200}.TTL())
	require.Equal(t, time.Duration(0), CartConfig{TTLMinutes: 0}.TTL())
	require.Equal(t, time.Duration(0), CartConfig{TTLMinutes: -5}.TTL())
}

func TestAppEnvChecks(t *testing.T) {
	t.Parallel()

	require.True(t, AppConfig{Env: "Development"}.IsDev())
	require.True(t, AppConfig{Env: "PRODUCTION"}.IsProd())
	require.False(t, AppConfig{Env: "staging"}.IsDev())
	require.False(t, AppConfig{Env: "staging"}.IsProd())
}
