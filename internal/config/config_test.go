package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "inventory_pulse", cfg.MongoDB.DBName)
	assert.Equal(t, float64(2), cfg.Analytics.AboveMSLFactor)
	assert.Equal(t, 0.5, cfg.Analytics.LowTurnoverThreshold)
	assert.Equal(t, float64(2), cfg.Analytics.HighTurnoverThreshold)
	assert.Empty(t, cfg.Import.Source)
}

func TestLoadThresholdOverrides(t *testing.T) {
	t.Setenv("ABOVE_MSL_FACTOR", "3")
	t.Setenv("LOW_TURNOVER_THRESHOLD", "0.25")
	t.Setenv("HIGH_TURNOVER_THRESHOLD", "4")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, float64(3), cfg.Analytics.AboveMSLFactor)
	assert.Equal(t, 0.25, cfg.Analytics.LowTurnoverThreshold)
	assert.Equal(t, float64(4), cfg.Analytics.HighTurnoverThreshold)
}

func TestLoadIgnoresUnparseableThreshold(t *testing.T) {
	t.Setenv("ABOVE_MSL_FACTOR", "lots")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, float64(2), cfg.Analytics.AboveMSLFactor)
}

func TestValidateRejectsIncoherentThresholds(t *testing.T) {
	t.Setenv("LOW_TURNOVER_THRESHOLD", "5")
	t.Setenv("HIGH_TURNOVER_THRESHOLD", "1")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidateRejectsUnknownImportSource(t *testing.T) {
	t.Setenv("IMPORT_SOURCE", "carrier-pigeon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidateRequiresFeedURLsForHTTPSource(t *testing.T) {
	t.Setenv("IMPORT_SOURCE", "http")

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("IMPORT_ITEM_FEED_URL", "https://example.com/items.json")
	t.Setenv("IMPORT_RECORD_FEED_URL", "https://example.com/records.json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceHTTP, cfg.Import.Source)
}
