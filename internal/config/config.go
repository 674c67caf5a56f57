package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultPlotlyJSURL is the Plotly.js bundle the page loads to draw charts.
const DefaultPlotlyJSURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Artifact locations. StatesFile, GraphsDir and PlotsDir default to
	// subpaths of DataDir.
	DataDir    string
	StatesFile string
	GraphsDir  string
	PlotsDir   string

	ArtifactCacheSize int

	// Presentation.
	BackgroundImage string
	PlotlyJSURL     string
}

// Artifacts locates the precomputed artifact tree.
type Artifacts struct {
	DataDir    string
	StatesFile string
	GraphsDir  string
	PlotsDir   string
}

// LoadArtifacts reads only the artifact locations (DATA_DIR, STATES_FILE,
// GRAPHS_DIR, PLOTS_DIR). Offline tools use it so unrelated server settings
// cannot stop them.
func LoadArtifacts() Artifacts {
	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "pickled_data")
	return Artifacts{
		DataDir:    artifacts.DataDir,
		StatesFile: artifacts.StatesFile,
		GraphsDir:  artifacts.GraphsDir,
		PlotsDir:   artifacts.PlotsDir,
	}
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseArtifactCacheSize()
	if err != nil {
		return nil, err
	}

	artifacts := LoadArtifacts()

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:    artifacts.DataDir,
		StatesFile: artifacts.StatesFile,
		GraphsDir:  artifacts.GraphsDir,
		PlotsDir:   artifacts.PlotsDir,

		ArtifactCacheSize: cacheSize,

		BackgroundImage: sharedcfg.EnvOrDefault("BACKGROUND_IMAGE", ""),
		PlotlyJSURL:     sharedcfg.EnvOrDefault("PLOTLY_JS_URL", DefaultPlotlyJSURL),
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.LogFormat)
	}
	if cfg.StatesFile == "" {
		return nil, errors.New("STATES_FILE is required")
	}
	if cfg.GraphsDir == "" {
		return nil, errors.New("GRAPHS_DIR is required")
	}
	if cfg.PlotsDir == "" {
		return nil, errors.New("PLOTS_DIR is required")
	}

	return cfg, nil
}

func parseArtifactCacheSize() (int, error) {
	s := sharedcfg.EnvOrDefault("ARTIFACT_CACHE_SIZE", "64")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid ARTIFACT_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
