package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Output.Dest != "" {
		t.Errorf("Output.Dest = %q, want empty", cfg.Output.Dest)
	}
	if cfg.Style.Layout != "" || cfg.Style.Theme != "" || cfg.Style.HighlightStyle != "" {
		t.Errorf("Style = %+v, want no references", cfg.Style)
	}
	if cfg.Style.EmbedMode != "default" {
		t.Errorf("Style.EmbedMode = %q, want %q", cfg.Style.EmbedMode, "default")
	}
	if cfg.Join {
		t.Error("Join = true, want false")
	}
	if cfg.Compile.Jobs != 0 {
		t.Errorf("Compile.Jobs = %d, want 0", cfg.Compile.Jobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Fatalf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Value checks
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid full config", mutate: func(c *Config) {
			c.Style = StyleConfig{Layout: "page", Theme: "github", HighlightStyle: "monokai", EmbedMode: "full"}
			c.Extensions = []string{"./ext.sh"}
			c.Net.Timeout = "5s"
			c.Compile.Jobs = MaxJobs
		}},
		{name: "embed mode case insensitive", mutate: func(c *Config) { c.Style.EmbedMode = "Light" }},
		{name: "empty embed mode", mutate: func(c *Config) { c.Style.EmbedMode = "" }},
		{name: "unknown embed mode", mutate: func(c *Config) { c.Style.EmbedMode = "heavy" }, wantErr: ErrInvalidValue},
		{name: "negative jobs", mutate: func(c *Config) { c.Compile.Jobs = -1 }, wantErr: ErrInvalidValue},
		{name: "too many jobs", mutate: func(c *Config) { c.Compile.Jobs = MaxJobs + 1 }, wantErr: ErrInvalidValue},
		{name: "bad timeout", mutate: func(c *Config) { c.Net.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "zero timeout", mutate: func(c *Config) { c.Net.Timeout = "0s" }, wantErr: ErrInvalidValue},
		{name: "blank extension", mutate: func(c *Config) { c.Extensions = []string{" "} }, wantErr: ErrInvalidValue},
		{name: "long theme", mutate: func(c *Config) { c.Style.Theme = strings.Repeat("x", MaxURLLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long dest", mutate: func(c *Config) { c.Output.Dest = strings.Repeat("x", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNetConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "", want: 0},
		{input: "45s", want: 45 * time.Second},
		{input: "1m30s", want: 90 * time.Second},
		{input: "-1s", wantErr: true},
		{input: "fast", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NetConfig{Timeout: tt.input}.TimeoutDuration()
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("TimeoutDuration(%q) error = %v, want ErrInvalidValue", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading and lookup
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		configPath := writeConfig(t, `output:
  dest: "out"
style:
  layout: page
  theme: github
  highlightStyle: base16/ocean
  numberedHeadings: true
  codeCopy: true
  mermaid: true
  embedMode: light
join: true
extensions:
  - ./a.sh
  - ./b.sh
assets:
  dir: ./assets
  cacheDir: /tmp/mdtodoc-cache
net:
  timeout: 10s
compile:
  sanitize: true
  jobs: 4
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Dest != "out" {
			t.Errorf("Output.Dest = %q, want %q", cfg.Output.Dest, "out")
		}
		want := StyleConfig{
			Layout: "page", Theme: "github", HighlightStyle: "base16/ocean",
			NumberedHeadings: true, CodeCopy: true, Mermaid: true, EmbedMode: "light",
		}
		if cfg.Style != want {
			t.Errorf("Style = %+v, want %+v", cfg.Style, want)
		}
		if !cfg.Join {
			t.Error("Join = false, want true")
		}
		if len(cfg.Extensions) != 2 || cfg.Extensions[1] != "./b.sh" {
			t.Errorf("Extensions = %v, want [./a.sh ./b.sh]", cfg.Extensions)
		}
		if cfg.Assets.Dir != "./assets" || cfg.Assets.CacheDir != "/tmp/mdtodoc-cache" {
			t.Errorf("Assets = %+v", cfg.Assets)
		}
		if d, _ := cfg.Net.TimeoutDuration(); d != 10*time.Second {
			t.Errorf("Net.Timeout = %v, want 10s", d)
		}
		if !cfg.Compile.Sanitize || cfg.Compile.Jobs != 4 {
			t.Errorf("Compile = %+v, want sanitize and 4 jobs", cfg.Compile)
		}
	})

	t.Run("omitted embed mode keeps default", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, "join: true\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Style.EmbedMode != "default" {
			t.Errorf("Style.EmbedMode = %q, want default", cfg.Style.EmbedMode)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("nonexistent name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("surely-missing-mdtodoc-config")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "surely-missing-mdtodoc-config.yaml") {
			t.Errorf("error %q should list tried paths", err.Error())
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "style: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "style:\n  colour: red\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "compile:\n  jobs: 99\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "team.yml"), []byte("join: true\n"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Join {
		t.Error("Join = false, want true")
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want local paths at least", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("SearchPaths() starts with %v, want work.yaml, work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if filepath.Base(filepath.Dir(p)) != dirName {
			t.Errorf("user path %q should live under %s/", p, dirName)
		}
	}
}
