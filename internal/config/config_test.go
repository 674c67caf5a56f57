package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "pickled_data", cfg.DataDir)
	assert.Equal(t, filepath.Join("pickled_data", "general_data", "states.json"), cfg.StatesFile)
	assert.Equal(t, filepath.Join("pickled_data", "graphs"), cfg.GraphsDir)
	assert.Equal(t, filepath.Join("pickled_data", "forecast_plots"), cfg.PlotsDir)
	assert.Equal(t, 64, cfg.ArtifactCacheSize)
	assert.Empty(t, cfg.BackgroundImage)
	assert.Equal(t, DefaultPlotlyJSURL, cfg.PlotlyJSURL)
}

func TestLoad_DataDirMovesDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/forecasts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/forecasts/general_data/states.json", cfg.StatesFile)
	assert.Equal(t, "/srv/forecasts/graphs", cfg.GraphsDir)
	assert.Equal(t, "/srv/forecasts/forecast_plots", cfg.PlotsDir)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("STATES_FILE", "/etc/dashboard/states.yaml")
	t.Setenv("GRAPHS_DIR", "/var/graphs")
	t.Setenv("PLOTS_DIR", "/var/plots")
	t.Setenv("ARTIFACT_CACHE_SIZE", "8")
	t.Setenv("BACKGROUND_IMAGE", "images/blank.png")
	t.Setenv("PLOTLY_JS_URL", "/static/plotly.min.js")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/etc/dashboard/states.yaml", cfg.StatesFile)
	assert.Equal(t, "/var/graphs", cfg.GraphsDir)
	assert.Equal(t, "/var/plots", cfg.PlotsDir)
	assert.Equal(t, 8, cfg.ArtifactCacheSize)
	assert.Equal(t, "images/blank.png", cfg.BackgroundImage)
	assert.Equal(t, "/static/plotly.min.js", cfg.PlotlyJSURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidArtifactCacheSize(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("ARTIFACT_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "ARTIFACT_CACHE_SIZE")
		})
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoadArtifacts_IgnoresServerSettings(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("SHUTDOWN_TIMEOUT", "abc")
	t.Setenv("ARTIFACT_CACHE_SIZE", "0")
	t.Setenv("DATA_DIR", "/srv/forecasts")
	t.Setenv("PLOTS_DIR", "/var/plots")

	_, err := Load()
	require.Error(t, err)

	got := LoadArtifacts()
	assert.Equal(t, Artifacts{
		DataDir:    "/srv/forecasts",
		StatesFile: "/srv/forecasts/general_data/states.json",
		GraphsDir:  "/srv/forecasts/graphs",
		PlotsDir:   "/var/plots",
	}, got)
}
