package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// Sentinel errors for layout templates.
var (
	ErrLayoutParse  = errors.New("invalid layout template")
	ErrLayoutRender = errors.New("layout rendering failed")
)

// PageData is what a layout template sees.
type PageData struct {
	Title   string
	Styles  []string // stylesheet URLs, in order
	Scripts []string // script URLs, in order
	Body    template.HTML
}

// legacyToken matches the {{ title }}, {{ body }}, {{ styles }} and
// {{ scripts }} placeholders of older layouts.
var legacyToken = regexp.MustCompile(`\{\{\s*(title|body|styles|scripts)\s*\}\}`)

var legacyReplacements = map[string]string{
	"title":   "{{ .Title }}",
	"body":    "{{ .Body }}",
	"styles":  "{{ range .Styles }}<link rel=\"stylesheet\" href=\"{{ . }}\">\n{{ end }}",
	"scripts": "{{ range .Scripts }}<script src=\"{{ . }}\"></script>\n{{ end }}",
}

// NormalizeLayout rewrites legacy placeholders into Go template syntax.
// Layouts already using Go template fields pass through unchanged.
func NormalizeLayout(src string) string {
	return legacyToken.ReplaceAllStringFunc(src, func(tok string) string {
		name := legacyToken.FindStringSubmatch(tok)[1]
		return legacyReplacements[name]
	})
}

// Layout is a compiled page template.
type Layout struct {
	tmpl *template.Template
}

// CompileLayout normalizes and parses a layout template.
func CompileLayout(name, src string) (*Layout, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(NormalizeLayout(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutParse, err)
	}
	return &Layout{tmpl: tmpl}, nil
}

// Render executes the layout with data.
func (l *Layout) Render(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLayoutRender, err)
	}
	return buf.String(), nil
}
