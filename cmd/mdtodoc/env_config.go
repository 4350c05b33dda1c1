package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdtodoc/internal/config"
)

const envPrefix = "MDTODOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // MDTODOC_CONFIG: config file name or path
	Dest           string // MDTODOC_DEST: output directory
	Layout         string // MDTODOC_LAYOUT: layout reference
	Theme          string // MDTODOC_THEME: theme reference
	HighlightStyle string // MDTODOC_HIGHLIGHT_STYLE: highlight style reference
	EmbedMode      string // MDTODOC_EMBED_MODE: light, default, full
	AssetPath      string // MDTODOC_ASSET_PATH: custom asset directory
	Timeout        string // MDTODOC_TIMEOUT: remote fetch timeout
	Jobs           int    // MDTODOC_JOBS: files compiled concurrently
}

// knownEnvVars lists valid MDTODOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDTODOC_CONFIG":          true,
	"MDTODOC_DEST":            true,
	"MDTODOC_LAYOUT":          true,
	"MDTODOC_THEME":           true,
	"MDTODOC_HIGHLIGHT_STYLE": true,
	"MDTODOC_EMBED_MODE":      true,
	"MDTODOC_ASSET_PATH":      true,
	"MDTODOC_TIMEOUT":         true,
	"MDTODOC_JOBS":            true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable MDTODOC_JOBS values are ignored with a warning on w.
func loadEnvConfig(w io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("MDTODOC_CONFIG"),
		Dest:           os.Getenv("MDTODOC_DEST"),
		Layout:         os.Getenv("MDTODOC_LAYOUT"),
		Theme:          os.Getenv("MDTODOC_THEME"),
		HighlightStyle: os.Getenv("MDTODOC_HIGHLIGHT_STYLE"),
		EmbedMode:      os.Getenv("MDTODOC_EMBED_MODE"),
		AssetPath:      os.Getenv("MDTODOC_ASSET_PATH"),
		Timeout:        os.Getenv("MDTODOC_TIMEOUT"),
	}

	if jobs := os.Getenv("MDTODOC_JOBS"); jobs != "" {
		if n, err := strconv.Atoi(jobs); err == nil && n >= 0 {
			cfg.Jobs = n
		} else {
			fmt.Fprintf(w, "warning: ignoring MDTODOC_JOBS=%q (not a count)\n", jobs)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDTODOC_* variables.
// Helps catch typos like MDTODOC_THEMES instead of MDTODOC_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later
// via mergeFlags, giving: CLI flags > env vars > config file > defaults.
// Values are validated afterwards together with the merged config.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}

	override(&cfg.Output.Dest, env.Dest)
	override(&cfg.Style.Layout, env.Layout)
	override(&cfg.Style.Theme, env.Theme)
	override(&cfg.Style.HighlightStyle, env.HighlightStyle)
	override(&cfg.Style.EmbedMode, env.EmbedMode)
	override(&cfg.Assets.Dir, env.AssetPath)
	override(&cfg.Net.Timeout, env.Timeout)

	if env.Jobs > 0 {
		cfg.Compile.Jobs = env.Jobs
	}
}
