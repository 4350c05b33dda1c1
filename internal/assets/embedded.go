package assets

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

//go:embed builtin
var builtin embed.FS

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Feature module files under ext/.
const (
	NumberedHeadingsCSS = "numbered-headings.css"
	CodeCopyCSS         = "code-copy.css"
	CodeCopyJS          = "code-copy.js"
	MermaidCSS          = "mermaid.css"
	MermaidInitJS       = "mermaid-init.js"
)

// extDir holds feature module files.
const extDir = "ext"

// Materialize writes the embedded builtin assets into dir.
// Files whose content already matches are left untouched, so repeated runs
// do not churn modification times.
func Materialize(dir string) error {
	return fs.WalkDir(builtin, "builtin", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, "builtin"), "/")
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if d.IsDir() {
			if err := os.MkdirAll(target, dirPermissions); err != nil {
				return fmt.Errorf("%w: %v", ErrAssetWrite, err)
			}
			return nil
		}
		content, err := builtin.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
		return writeIfChanged(target, content)
	})
}

// materializeHighlightStyle generates the CSS for a chroma style into dir.
// Returns ErrAssetNotFound if no chroma style has that name.
func materializeHighlightStyle(dir, name string) (string, error) {
	style, ok := styles.Registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	css, err := highlightCSS(style)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, filepath.FromSlash(HighlightStyle.file(name)))
	if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	if err := writeIfChanged(target, css); err != nil {
		return "", err
	}
	return target, nil
}

// highlightCSS renders a chroma style as class-based CSS, matching the
// class names emitted by the Markdown highlighter.
func highlightCSS(style *chroma.Style) ([]byte, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return nil, fmt.Errorf("%w: highlight style %q: %v", ErrAssetWrite, style.Name, err)
	}
	return buf.Bytes(), nil
}

// BuiltinNames lists the builtin names for kind, sorted.
// Highlight styles are taken from the chroma registry.
func BuiltinNames(kind Kind) []string {
	if kind.Dir == HighlightStyle.Dir {
		return styles.Names()
	}
	entries, err := builtin.ReadDir("builtin/" + kind.Dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != kind.Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), kind.Ext))
	}
	sort.Strings(names)
	return names
}

func writeIfChanged(target string, content []byte) error {
	existing, err := os.ReadFile(target) // #nosec G304 -- path built from embedded names
	if err == nil && bytes.Equal(existing, content) {
		return nil
	}
	// #nosec G306 -- assets are referenced by generated HTML and meant to be readable
	if err := os.WriteFile(target, content, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	return nil
}
