// Package yamlutil isolates the YAML dependency used for configuration
// files and Markdown front matter.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds decoded input (1MB). Config files and front matter
// are far smaller.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal decodes YAML leniently: unknown fields are ignored.
// Used for front matter, where documents carry arbitrary metadata.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict rejects unknown fields in the input.
// Used for configuration files so typos surface as errors.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

// StringField decodes data as a mapping and returns the string value of key.
// Returns "" when the key is absent, not a string, or data is not a mapping.
func StringField(data []byte, key string) string {
	var m map[string]any
	if err := Unmarshal(data, &m); err != nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
