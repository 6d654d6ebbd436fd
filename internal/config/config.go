// Package config loads the YAML file that describes a course's homework
// layout and rendering options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxInputSize limits config input to prevent memory exhaustion (1MB).
var MaxInputSize = 1 << 20

// appDirName is the directory searched under os.UserConfigDir.
const appDirName = "go-nb2hw"

// Field length limits.
const (
	MaxCourseLength     = 100
	MaxTermLength       = 50
	MaxInstructorLength = 100
	MaxPathLength       = 4096
	MaxDateFormatLength = 50
	MaxFooterTextLength = 200
)

// Margin bounds in inches.
const (
	MinMargin = 0.25
	MaxMargin = 3.0
)

// Config holds the course configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Course CourseConfig `yaml:"course"`
	Render RenderConfig `yaml:"render"`
	Page   PageConfig   `yaml:"page"`
	Footer FooterConfig `yaml:"footer"`
}

// InputConfig locates assignment folders.
type InputConfig struct {
	BaseDir string `yaml:"baseDir"` // Folder holding homework-N directories
}

// OutputConfig locates generated files.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Relative to the assignment folder unless absolute
}

// CourseConfig is shown in each problem header.
type CourseConfig struct {
	Name       string `yaml:"name"`
	Term       string `yaml:"term"`
	Instructor string `yaml:"instructor"`
}

// RenderConfig controls the notebook pipeline and the PDF renderer.
type RenderConfig struct {
	Style         string `yaml:"style"`         // Style name, file path, or CSS content
	AssetPath     string `yaml:"assetPath"`     // Custom asset directory (empty = embedded)
	Timeout       string `yaml:"timeout"`       // Go duration per render, e.g. "45s"
	Workers       int    `yaml:"workers"`       // 0 = automatic
	IncludeRaw    bool   `yaml:"includeRaw"`    // Keep raw cells
	KeepVariables bool   `yaml:"keepVariables"` // Keep metadata.variables after interpolation
	DateFormat    string `yaml:"dateFormat"`    // "auto", "auto:long", "auto:YYYY-MM-DD", or literal
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// FooterConfig defines the PDF footer.
type FooterConfig struct {
	PageNumbers bool   `yaml:"pageNumbers"`
	Text        string `yaml:"text"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{BaseDir: "homework"},
		Output: OutputConfig{Dir: "output"},
		Render: RenderConfig{
			Style:      "homework",
			DateFormat: "auto:long",
		},
		Page:   PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
		Footer: FooterConfig{PageNumbers: true},
	}
}

// TimeoutDuration parses Render.Timeout. Zero means "use the default".
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout: must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.baseDir", c.Input.BaseDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"course.name", c.Course.Name, MaxCourseLength},
		{"course.term", c.Course.Term, MaxTermLength},
		{"course.instructor", c.Course.Instructor, MaxInstructorLength},
		{"render.assetPath", c.Render.AssetPath, MaxPathLength},
		{"render.dateFormat", c.Render.DateFormat, MaxDateFormatLength},
		{"footer.text", c.Footer.Text, MaxFooterTextLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render.workers: must be >= 0, got %d", ErrInvalidValue, c.Render.Workers)
	}

	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
		default:
			return fmt.Errorf("%w: page.size: %q (must be letter, a4, or legal)", ErrInvalidValue, c.Page.Size)
		}
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: page.orientation: %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMargin || c.Page.Margin > MaxMargin) {
		return fmt.Errorf("%w: page.margin: must be between %.2f and %.1f inches, got %.2f",
			ErrInvalidValue, MinMargin, MaxMargin, c.Page.Margin)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	return LoadConfigOver(nameOrPath, DefaultConfig())
}

// LoadConfigOver is LoadConfig with keys missing from the file taken from
// base instead of DefaultConfig. base is not modified.
func LoadConfigOver(nameOrPath string, base *Config) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := ParseOver(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig, rejecting unknown keys.
func Parse(data []byte) (*Config, error) {
	return ParseOver(data, DefaultConfig())
}

// ParseOver decodes YAML over a copy of base, rejecting unknown keys.
func ParseOver(data []byte, base *Config) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrConfigParse, MaxInputSize)
	}

	cfg := new(Config)
	*cfg = *base
	if len(data) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists where a config name is looked up, in order:
// the current directory, then ~/.config/go-nb2hw/, each with .yaml then
// .yml. A name that is already a path is returned alone.
func SearchPaths(name string) []string {
	if name == "" {
		return nil
	}
	if isFilePath(name) {
		return []string{name}
	}

	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
