package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdtodoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength = 4096 // local paths
	MaxURLLength  = 2048 // browser limit
	MaxJobs       = 8    // matches the processor pool cap
)

// Accepted style.embedMode values; empty means default.
var embedModes = []string{"light", "default", "full"}

// dirName is the directory searched under os.UserConfigDir.
const dirName = "mdtodoc"

// Config holds all configuration for a compile run.
type Config struct {
	Output     OutputConfig  `yaml:"output"`
	Style      StyleConfig   `yaml:"style"`
	Join       bool          `yaml:"join"`
	Extensions []string      `yaml:"extensions"` // executable extension paths
	Assets     AssetsConfig  `yaml:"assets"`
	Net        NetConfig     `yaml:"net"`
	Compile    CompileConfig `yaml:"compile"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dest string `yaml:"dest"` // empty = beside each source
}

// StyleConfig selects layout, theme, highlight style and feature modules.
// References are builtin names, local paths or URLs.
type StyleConfig struct {
	Layout           string `yaml:"layout"`
	Theme            string `yaml:"theme"`
	HighlightStyle   string `yaml:"highlightStyle"`
	NumberedHeadings bool   `yaml:"numberedHeadings"`
	CodeCopy         bool   `yaml:"codeCopy"`
	Mermaid          bool   `yaml:"mermaid"`
	EmbedMode        string `yaml:"embedMode"` // light, default, full
}

// AssetsConfig defines asset lookup options.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`      // searched before builtin assets
	CacheDir string `yaml:"cacheDir"` // where builtin assets are written
}

// NetConfig defines remote fetch options.
type NetConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// CompileConfig defines compile options.
type CompileConfig struct {
	Sanitize bool `yaml:"sanitize"`
	Jobs     int  `yaml:"jobs"` // 0 = sequential
}

// TimeoutDuration parses net.timeout. Zero means the default.
func (n NetConfig) TimeoutDuration() (time.Duration, error) {
	if n.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: net.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: net.timeout: must be positive, got %s", ErrInvalidValue, n.Timeout)
	}
	return d, nil
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name, value string
		max         int
	}{
		{"output.dest", c.Output.Dest, MaxPathLength},
		{"style.layout", c.Style.Layout, MaxURLLength},
		{"style.theme", c.Style.Theme, MaxURLLength},
		{"style.highlightStyle", c.Style.HighlightStyle, MaxURLLength},
		{"assets.dir", c.Assets.Dir, MaxPathLength},
		{"assets.cacheDir", c.Assets.CacheDir, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for i, ext := range c.Extensions {
		name := fmt.Sprintf("extensions[%d]", i)
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("%w: %s: empty path", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name, ext, MaxPathLength); err != nil {
			return err
		}
	}

	if err := ValidateEmbedMode(c.Style.EmbedMode); err != nil {
		return err
	}
	if _, err := c.Net.TimeoutDuration(); err != nil {
		return err
	}
	if c.Compile.Jobs < 0 || c.Compile.Jobs > MaxJobs {
		return fmt.Errorf("%w: compile.jobs: must be between 0 and %d, got %d", ErrInvalidValue, MaxJobs, c.Compile.Jobs)
	}
	return nil
}

// ValidateEmbedMode checks an embed mode name, case-insensitively.
func ValidateEmbedMode(mode string) error {
	if mode == "" {
		return nil
	}
	for _, m := range embedModes {
		if strings.EqualFold(mode, m) {
			return nil
		}
	}
	return fmt.Errorf("%w: style.embedMode: %q (must be light, default, or full)", ErrInvalidValue, mode)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file:
// builtin "none" layout, no theme, default embedding, sequential compile.
func DefaultConfig() *Config {
	return &Config{
		Style: StyleConfig{EmbedMode: "default"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
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

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
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

// SearchPaths lists where a config name is looked up, in order: the
// current directory, then ~/.config/mdtodoc/, each with .yaml and .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, dirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
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
