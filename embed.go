package mdtodoc

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mdtodoc/internal/pipeline"
)

// EmbedMode controls how aggressively external resources are inlined.
type EmbedMode string

const (
	EmbedLight   EmbedMode = "light"
	EmbedDefault EmbedMode = "default"
	EmbedFull    EmbedMode = "full"
)

// SmallResourceKB is the "small resource" threshold of the light and
// default modes.
const SmallResourceKB = 16

// Limit is an inlining threshold, see pipeline.Limit.
type Limit = pipeline.Limit

// EmbedModes lists the accepted modes, in increasing embedding order.
var EmbedModes = []EmbedMode{EmbedLight, EmbedDefault, EmbedFull}

// ParseEmbedMode parses s case-insensitively. An empty string is EmbedDefault.
func ParseEmbedMode(s string) (EmbedMode, error) {
	if strings.TrimSpace(s) == "" {
		return EmbedDefault, nil
	}
	m := EmbedMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (expected light, default or full)", ErrInvalidEmbedMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of the known modes.
func (m EmbedMode) Valid() bool {
	for _, known := range EmbedModes {
		if m == known {
			return true
		}
	}
	return false
}

// Options returns the inlining limits of m. Stylesheets are always
// inlined; the zero mode behaves like EmbedDefault.
//
//	light:   images, SVGs and scripts below 16KB
//	default: all images and SVGs, scripts below 16KB
//	full:    everything
func (m EmbedMode) Options() pipeline.InlineOptions {
	small := pipeline.Below(SmallResourceKB)
	switch m {
	case EmbedLight:
		return pipeline.InlineOptions{Images: small, SVGs: small, Scripts: small, Links: pipeline.Always}
	case EmbedFull:
		return pipeline.InlineOptions{Images: pipeline.Always, SVGs: pipeline.Always, Scripts: pipeline.Always, Links: pipeline.Always}
	default:
		return pipeline.InlineOptions{Images: pipeline.Always, SVGs: pipeline.Always, Scripts: small, Links: pipeline.Always}
	}
}

func (m EmbedMode) String() string {
	if m == "" {
		return string(EmbedDefault)
	}
	return string(m)
}
