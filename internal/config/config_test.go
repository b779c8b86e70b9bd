package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	require.NoError(t, s.Validate())

	start, err := s.SyntheticStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestLoadSettings_OverridesOnTopOfDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	body := `
sentiment:
  fear_zone_max: 20
simulator:
  anti_fear_min: 30
charts:
  cache_ttl: 2m
  width: 1200
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, s.Sentiment.FearZoneMax)
	assert.Equal(t, 75.0, s.Sentiment.GreedZoneMin)
	assert.Equal(t, 30.0, s.Simulator.AntiFearMin)
	assert.Equal(t, 10000.0, s.Simulator.DefaultCapital)
	assert.Equal(t, 2*time.Minute, s.Charts.CacheTTL)
	assert.Equal(t, 1200, s.Charts.Width)
	assert.Equal(t, 500, s.Charts.Height)
}

func TestLoadSettings_RejectsInconsistentValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sentiment:\n  fear_zone_max: 80\nhistogram:\n  bins: 0\n"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "greed_zone_min")
	assert.Contains(t, err.Error(), "histogram.bins")
}

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PORT", "")
	t.Setenv("DATA_PATH", "trades.parquet")
	t.Setenv("DASHBOARD_CONFIG", filepath.Join(dir, "none.yaml"))
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WEBHOOK_PUBLIC_URL", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", cfg.Port)
	assert.Equal(t, "trades.parquet", cfg.DataPath)
	assert.False(t, cfg.BotEnabled())
	assert.Equal(t, DefaultSettings(), cfg.Settings)
}

func TestLoad_TokenNeedsWebhook(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_PUBLIC_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalid)
}
