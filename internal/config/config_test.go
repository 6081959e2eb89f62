package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.View.DedupEnabled)
	assert.Equal(t, "0 4 * * *", cfg.Sweep.Cron)
	assert.Equal(t, 24*time.Hour, cfg.Sweep.GracePeriod)
}

func TestLoad_ViewDedupToggle(t *testing.T) {
	t.Setenv("VIEW_DEDUP_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.View.DedupEnabled)
}

func TestLoad_ProductionRequiresRealSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "an-actual-production-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "an-actual-production-secret", cfg.JWT.Secret)
}
