package assets

import (
	"fmt"
	"regexp"
)

var (
	// namePattern matches builtin layout and theme names.
	namePattern = regexp.MustCompile(`^[\w-]+$`)

	// variantPattern also allows one variant folder ("base16/ocean").
	variantPattern = regexp.MustCompile(`^(\w+/)?[\w-]+$`)
)

// Kind describes a family of builtin assets.
type Kind struct {
	Name    string // human-readable name used in error messages
	Dir     string // subdirectory under an asset root
	Ext     string // file extension including the dot
	pattern *regexp.Regexp
}

// Builtin asset kinds.
var (
	Layout         = Kind{Name: "layout", Dir: "layouts", Ext: ".html", pattern: namePattern}
	Theme          = Kind{Name: "theme", Dir: "themes", Ext: ".css", pattern: namePattern}
	HighlightStyle = Kind{Name: "highlight style", Dir: "highlight-styles", Ext: ".css", pattern: variantPattern}
)

// IsName reports whether ref has the shape of a builtin name for this kind.
func (k Kind) IsName(ref string) bool {
	return k.pattern.MatchString(ref)
}

// file returns the asset path relative to an asset root.
func (k Kind) file(name string) string {
	return k.Dir + "/" + name + k.Ext
}

// ValidateAssetName checks that name is a safe builtin name for kind.
func ValidateAssetName(kind Kind, name string) error {
	if !kind.IsName(name) {
		return fmt.Errorf("%w: %q is not a valid %s name", ErrAssetNotFound, name, kind.Name)
	}
	return nil
}
