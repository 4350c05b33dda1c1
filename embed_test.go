package mdtodoc

import (
	"errors"
	"testing"

	"github.com/alnah/go-mdtodoc/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestParseEmbedMode - Accepted and rejected values
// ---------------------------------------------------------------------------

func TestParseEmbedMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    EmbedMode
		wantErr bool
	}{
		{name: "empty is default", input: "", want: EmbedDefault},
		{name: "blank is default", input: "  ", want: EmbedDefault},
		{name: "light", input: "light", want: EmbedLight},
		{name: "default", input: "default", want: EmbedDefault},
		{name: "full", input: "full", want: EmbedFull},
		{name: "case insensitive", input: "FULL", want: EmbedFull},
		{name: "surrounding spaces", input: " light ", want: EmbedLight},
		{name: "unknown", input: "heavy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseEmbedMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmbedMode) {
					t.Fatalf("ParseEmbedMode(%q) error = %v, want ErrInvalidEmbedMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEmbedMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEmbedMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbedMode_Options - Per-mode inlining limits
// ---------------------------------------------------------------------------

func TestEmbedMode_Options(t *testing.T) {
	t.Parallel()

	small := pipeline.Below(SmallResourceKB)
	tests := []struct {
		mode                         EmbedMode
		images, svgs, scripts, links Limit
	}{
		{EmbedLight, small, small, small, pipeline.Always},
		{EmbedDefault, pipeline.Always, pipeline.Always, small, pipeline.Always},
		{EmbedFull, pipeline.Always, pipeline.Always, pipeline.Always, pipeline.Always},
		{"", pipeline.Always, pipeline.Always, small, pipeline.Always},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			got := tt.mode.Options()
			if got.Images != tt.images || got.SVGs != tt.svgs || got.Scripts != tt.scripts || got.Links != tt.links {
				t.Errorf("%q.Options() = images %s, svgs %s, scripts %s, links %s; want %s, %s, %s, %s",
					tt.mode, got.Images, got.SVGs, got.Scripts, got.Links,
					tt.images, tt.svgs, tt.scripts, tt.links)
			}
			if got.BaseDir != "" || got.Fetcher != nil {
				t.Errorf("%q.Options() should leave BaseDir and Fetcher to the caller", tt.mode)
			}
		})
	}
}

// Each mode admits at least what the previous one does.
func TestEmbedMode_Options_Monotonic(t *testing.T) {
	t.Parallel()

	sizes := []int{0, 1024, SmallResourceKB*1024 - 1, SmallResourceKB * 1024, 1 << 20}
	for i := 1; i < len(EmbedModes); i++ {
		lower, higher := EmbedModes[i-1].Options(), EmbedModes[i].Options()
		for _, size := range sizes {
			pairs := []struct {
				kind      string
				low, high Limit
			}{
				{"images", lower.Images, higher.Images},
				{"svgs", lower.SVGs, higher.SVGs},
				{"scripts", lower.Scripts, higher.Scripts},
				{"links", lower.Links, higher.Links},
			}
			for _, p := range pairs {
				if p.low.Admits(size) && !p.high.Admits(size) {
					t.Errorf("%s admits %s of %d bytes but %s does not", EmbedModes[i-1], p.kind, size, EmbedModes[i])
				}
			}
		}
	}
}

func TestEmbedMode_Valid(t *testing.T) {
	t.Parallel()

	for _, m := range EmbedModes {
		if !m.Valid() {
			t.Errorf("%q.Valid() = false, want true", m)
		}
	}
	for _, m := range []EmbedMode{"", "Light", "none"} {
		if m.Valid() {
			t.Errorf("%q.Valid() = true, want false", m)
		}
	}
}
