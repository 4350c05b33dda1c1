package mdtodoc

import (
	"context"
	"fmt"
	"html/template"
	"os"

	"github.com/alnah/go-mdtodoc/internal/assets"
	"github.com/alnah/go-mdtodoc/internal/fetch"
	"github.com/alnah/go-mdtodoc/internal/fileutil"
	"github.com/alnah/go-mdtodoc/internal/pipeline"
)

// DefaultLayout renders the body alone, without page chrome.
const DefaultLayout = "none"

// Third-party scripts used by feature modules.
const (
	ClipboardScriptURL = "https://cdn.jsdelivr.net/npm/clipboard@2.0.11/dist/clipboard.min.js"
	MermaidScriptURL   = "https://cdn.jsdelivr.net/npm/mermaid@10.9.1/dist/mermaid.min.js"
)

// StyleOptions selects the layout, theme, highlight style and feature
// modules of the output. References are builtin names, local paths or
// remote URLs.
type StyleOptions struct {
	Layout           string
	Theme            string
	HighlightStyle   string
	NumberedHeadings bool
	CodeCopy         bool
	Mermaid          bool
	EmbedMode        EmbedMode
}

// LayoutHook transforms layout source before it is compiled.
type LayoutHook func(ctx context.Context, layout string) (string, error)

// Style is a resolved StyleOptions. It is read-only after Init and safe
// for concurrent use.
type Style struct {
	opts    StyleOptions
	locator *assets.Locator
	client  *fetch.Client

	layout  *pipeline.Layout
	styles  []string // absolute paths or URLs
	scripts []string // absolute paths or URLs
}

// NewStyle creates a Style resolving references through locator.
// Remote layouts are fetched with client.
func NewStyle(opts StyleOptions, locator *assets.Locator, client *fetch.Client) *Style {
	if opts.Layout == "" {
		opts.Layout = DefaultLayout
	}
	return &Style{opts: opts, locator: locator, client: client}
}

// Options returns the options the style was built from.
func (s *Style) Options() StyleOptions {
	return s.opts
}

// Init resolves every reference and compiles the layout. hook, when set,
// sees the layout source first. Any unresolvable reference fails Init.
func (s *Style) Init(ctx context.Context, hook LayoutHook) error {
	src, err := s.loadLayout(ctx)
	if err != nil {
		return err
	}
	if hook != nil {
		if src, err = hook(ctx, src); err != nil {
			return err
		}
	}
	layout, err := pipeline.CompileLayout(s.opts.Layout, src)
	if err != nil {
		return assets.NewResourceError(assets.Layout.Name, s.opts.Layout, err)
	}

	styles, err := s.resolveStyles()
	if err != nil {
		return err
	}
	scripts, err := s.resolveScripts()
	if err != nil {
		return err
	}

	s.layout, s.styles, s.scripts = layout, styles, scripts
	return nil
}

func (s *Style) loadLayout(ctx context.Context) (string, error) {
	ref := s.opts.Layout
	if fileutil.IsRemote(ref) {
		src, err := s.client.FetchText(ctx, ref, true)
		if err != nil {
			return "", assets.NewResourceError(assets.Layout.Name, ref, err)
		}
		return src, nil
	}

	p, err := s.locator.Resolve(ref, assets.Layout)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p) // #nosec G304 -- resolved layout path
	if err != nil {
		return "", assets.NewResourceError(assets.Layout.Name, ref, err)
	}
	return string(data), nil
}

// resolveStyles orders stylesheets: theme, highlight style, then feature CSS.
func (s *Style) resolveStyles() ([]string, error) {
	var styles []string
	for _, r := range []struct {
		ref  string
		kind assets.Kind
	}{
		{s.opts.Theme, assets.Theme},
		{s.opts.HighlightStyle, assets.HighlightStyle},
	} {
		if r.ref == "" {
			continue
		}
		p, err := s.locator.Resolve(r.ref, r.kind)
		if err != nil {
			return nil, err
		}
		styles = append(styles, p)
	}

	var ext []string
	if s.opts.NumberedHeadings {
		ext = append(ext, assets.NumberedHeadingsCSS)
	}
	if s.opts.CodeCopy {
		ext = append(ext, assets.CodeCopyCSS)
	}
	if s.opts.Mermaid {
		ext = append(ext, assets.MermaidCSS)
	}
	return s.appendExt(styles, ext...)
}

// resolveScripts orders scripts: clipboard, code-copy, mermaid, mermaid init.
func (s *Style) resolveScripts() ([]string, error) {
	var scripts []string
	var err error
	if s.opts.CodeCopy {
		scripts = append(scripts, ClipboardScriptURL)
		if scripts, err = s.appendExt(scripts, assets.CodeCopyJS); err != nil {
			return nil, err
		}
	}
	if s.opts.Mermaid {
		scripts = append(scripts, MermaidScriptURL)
		if scripts, err = s.appendExt(scripts, assets.MermaidInitJS); err != nil {
			return nil, err
		}
	}
	return scripts, nil
}

func (s *Style) appendExt(list []string, files ...string) ([]string, error) {
	for _, f := range files {
		p, err := s.locator.Ext(f)
		if err != nil {
			return nil, fmt.Errorf("feature module %s: %w", f, err)
		}
		list = append(list, p)
	}
	return list, nil
}

// Styles returns stylesheet URLs relative to base.
func (s *Style) Styles(base string) []string {
	return toURLs(s.styles, base)
}

// Scripts returns script URLs relative to base.
func (s *Style) Scripts(base string) []string {
	return toURLs(s.scripts, base)
}

func toURLs(paths []string, base string) []string {
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = fileutil.ToURL(p, base)
	}
	return urls
}

// Render renders a page for an output written in outDir.
func (s *Style) Render(ctx context.Context, outDir, title, body string) (string, error) {
	if s.layout == nil {
		return "", fmt.Errorf("%w: style not initialized", ErrLayoutRender)
	}
	return s.layout.Render(ctx, pipeline.PageData{
		Title:   title,
		Styles:  s.Styles(outDir),
		Scripts: s.Scripts(outDir),
		Body:    template.HTML(body), // #nosec G203 -- body is compiled Markdown
	})
}
