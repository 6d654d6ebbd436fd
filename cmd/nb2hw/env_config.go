package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2hw/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // NB2HW_CONFIG: config file path
	Style      string        // NB2HW_STYLE: CSS style name or path
	Timeout    time.Duration // NB2HW_TIMEOUT: PDF generation timeout
	Workers    int           // NB2HW_WORKERS: parallel workers
	BaseDir    string        // NB2HW_BASE_DIR: folder holding homework-N
	OutputDir  string        // NB2HW_OUTPUT_DIR: output folder
	AssetPath  string        // NB2HW_ASSET_PATH: custom asset directory
}

// knownEnvVars lists valid NB2HW_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NB2HW_CONFIG":     true,
	"NB2HW_STYLE":      true,
	"NB2HW_TIMEOUT":    true,
	"NB2HW_WORKERS":    true,
	"NB2HW_BASE_DIR":   true,
	"NB2HW_OUTPUT_DIR": true,
	"NB2HW_ASSET_PATH": true,
	"NB2HW_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NB2HW_CONFIG"),
		Style:      os.Getenv("NB2HW_STYLE"),
		BaseDir:    os.Getenv("NB2HW_BASE_DIR"),
		OutputDir:  os.Getenv("NB2HW_OUTPUT_DIR"),
		AssetPath:  os.Getenv("NB2HW_ASSET_PATH"),
	}

	if timeout := os.Getenv("NB2HW_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("NB2HW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NB2HW_* variables.
func warnUnknownEnvVars(log *zap.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "NB2HW_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				log.Warn("unknown environment variable (typo?)", zap.String("name", name))
			}
		}
	}
}

// applyEnvConfig applies environment variable values to cfg. It runs on the
// defaults before the config file is decoded, so keys the file sets win.
// Timeout and workers are resolved separately with env over file.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Render.Style = env.Style
	}
	if env.BaseDir != "" {
		cfg.Input.BaseDir = env.BaseDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.AssetPath != "" {
		cfg.Render.AssetPath = env.AssetPath
	}
}
