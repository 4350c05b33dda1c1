package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdtodoc/internal/fileutil"
)

// ErrInline indicates a stylesheet or script could not be embedded.
var ErrInline = errors.New("cannot embed resource")

// IgnoreAttr marks elements the inliner must leave alone.
const IgnoreAttr = "data-inline-ignore"

// Limit is an inlining threshold: Never, Always, or a size in kilobytes
// below which a resource is inlined.
type Limit int

const (
	Never  Limit = 0
	Always Limit = -1
)

// Below returns a Limit admitting resources smaller than kb kilobytes.
// Non-positive sizes return Never.
func Below(kb int) Limit {
	if kb <= 0 {
		return Never
	}
	return Limit(kb)
}

// Admits reports whether a resource of size bytes may be inlined.
func (l Limit) Admits(size int) bool {
	switch {
	case l == Always:
		return true
	case l <= Never:
		return false
	default:
		return size < int(l)*1024
	}
}

// Enabled is false only for Never.
func (l Limit) Enabled() bool {
	return l != Never
}

func (l Limit) String() string {
	switch {
	case l == Always:
		return "always"
	case l <= Never:
		return "never"
	default:
		return "<" + strconv.Itoa(int(l)) + "KB"
	}
}

// Fetcher retrieves remote resources.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// InlineOptions configures Inline.
type InlineOptions struct {
	BaseDir   string // output directory; generated style and script URLs are relative to it
	SourceDir string // source directory; document images are relative to it, defaults to BaseDir

	Images  Limit // raster images
	SVGs    Limit // SVG images
	Scripts Limit // <script src>
	Links   Limit // <link rel="stylesheet">

	Fetcher Fetcher // nil leaves remote resources external
}

// imageDirs lists where relative image references are looked up.
func (o InlineOptions) imageDirs() []string {
	return lookupDirs(o.SourceDir, o.BaseDir)
}

// assetDirs lists where relative stylesheet and script references are
// looked up.
func (o InlineOptions) assetDirs() []string {
	return lookupDirs(o.BaseDir, o.SourceDir)
}

func lookupDirs(first, second string) []string {
	if first == "" {
		first = second
	}
	if second == "" || second == first {
		return []string{first}
	}
	return []string{first, second}
}

// Inliner embeds external resources into HTML documents.
type Inliner struct {
	minifier *minify.M
}

// NewInliner creates an Inliner minifying embedded CSS and JavaScript.
func NewInliner() *Inliner {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return &Inliner{minifier: m}
}

var defaultInliner = NewInliner()

// Inline embeds content's external resources with a shared Inliner.
func Inline(ctx context.Context, content string, opts InlineOptions) (string, error) {
	return defaultInliner.Inline(ctx, content, opts)
}

const (
	svgMIME         = "image/svg+xml"
	defaultDataMIME = "application/octet-stream"
)

var (
	cssURLPattern = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)
	closingScript = regexp.MustCompile(`(?i)</(script)`)
	closingStyle  = regexp.MustCompile(`(?i)</(style)`)
)

// Inline replaces stylesheet links with <style>, external scripts with
// inline <script> and images with data URIs, each when the matching limit
// admits the resource size. Elements carrying data-inline-ignore and data:
// URIs are skipped. Stylesheets or scripts that cannot be loaded return
// ErrInline; unloadable images are left as they are.
func (in *Inliner) Inline(ctx context.Context, content string, opts InlineOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := parseDoc(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInline, err)
	}
	normalizePre(doc.Selection)

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if opts.Links.Enabled() {
		doc.Find(`link[href]`).Each(func(_ int, s *goquery.Selection) {
			if firstErr != nil || skipElement(s) || !isStylesheet(s) {
				return
			}
			href, _ := s.Attr("href")
			if err := in.inlineStylesheet(ctx, s, href, opts); err != nil {
				keep(err)
			}
		})
	}

	if opts.Scripts.Enabled() {
		doc.Find(`script[src]`).Each(func(_ int, s *goquery.Selection) {
			if firstErr != nil || skipElement(s) {
				return
			}
			src, _ := s.Attr("src")
			if err := in.inlineScript(ctx, s, src, opts); err != nil {
				keep(err)
			}
		})
	}
	if firstErr != nil {
		return "", firstErr
	}

	doc.Find(`img[src]`).Each(func(_ int, s *goquery.Selection) {
		if skipElement(s) {
			return
		}
		src, _ := s.Attr("src")
		if uri, ok := in.imageDataURI(ctx, src, opts.imageDirs(), opts); ok {
			s.SetAttr("src", uri)
			return
		}
		rebase(s, "src", src, opts.imageDirs(), opts.BaseDir)
	})

	out, err := doc.render()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInline, err)
	}
	return out, nil
}

func skipElement(s *goquery.Selection) bool {
	_, ignored := s.Attr(IgnoreAttr)
	return ignored
}

func isStylesheet(s *goquery.Selection) bool {
	rel, _ := s.Attr("rel")
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if r == "stylesheet" {
			return true
		}
	}
	return false
}

func (in *Inliner) inlineStylesheet(ctx context.Context, s *goquery.Selection, href string, opts InlineOptions) error {
	if isDataURI(href) {
		return nil
	}
	data, ok, err := load(ctx, href, opts.assetDirs(), opts.Fetcher)
	if err != nil {
		return fmt.Errorf("%w: stylesheet %q: %v", ErrInline, href, err)
	}
	if !ok || !opts.Links.Admits(len(data)) {
		rebase(s, "href", href, opts.assetDirs(), opts.BaseDir)
		return nil
	}

	styles := in.rewriteCSSURLs(ctx, string(data), href, opts)
	styles = in.minifyText("text/css", styles, href)
	styles = closingStyle.ReplaceAllString(styles, `<\/$1`)

	node := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	if media, ok := s.Attr("media"); ok && media != "" {
		node.Attr = append(node.Attr, html.Attribute{Key: "media", Val: media})
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: styles})
	s.ReplaceWithNodes(node)
	return nil
}

func (in *Inliner) inlineScript(ctx context.Context, s *goquery.Selection, src string, opts InlineOptions) error {
	if isDataURI(src) {
		return nil
	}
	data, ok, err := load(ctx, src, opts.assetDirs(), opts.Fetcher)
	if err != nil {
		return fmt.Errorf("%w: script %q: %v", ErrInline, src, err)
	}
	if !ok || !opts.Scripts.Admits(len(data)) {
		rebase(s, "src", src, opts.assetDirs(), opts.BaseDir)
		return nil
	}

	code := in.minifyText("application/javascript", string(data), src)
	code = closingScript.ReplaceAllString(code, `<\/$1`)

	node := s.Get(0)
	attrs := node.Attr[:0]
	for _, a := range node.Attr {
		switch a.Key {
		case "src", "integrity", "crossorigin", "async", "defer":
			continue
		}
		attrs = append(attrs, a)
	}
	node.Attr = attrs
	for c := node.FirstChild; c != nil; c = node.FirstChild {
		node.RemoveChild(c)
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: code})
	return nil
}

// rewriteCSSURLs makes the url() references of a stylesheet loaded from
// sheetRef valid from the output document: data URIs under the image
// limits, otherwise paths rebased onto BaseDir.
func (in *Inliner) rewriteCSSURLs(ctx context.Context, styles, sheetRef string, opts InlineOptions) string {
	return cssURLPattern.ReplaceAllStringFunc(styles, func(match string) string {
		m := cssURLPattern.FindStringSubmatch(match)
		ref := strings.TrimSpace(m[2])
		if ref == "" || isDataURI(ref) || strings.HasPrefix(ref, "#") {
			return match
		}
		// Root-relative references stay bound to the serving origin
		if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
			return match
		}

		target := resolveAgainst(sheetRef, ref, opts.assetDirs())
		if uri, ok := in.imageDataURI(ctx, target, opts.assetDirs(), opts); ok {
			return `url("` + uri + `")`
		}
		if fileutil.IsRemote(target) {
			return `url("` + target + `")`
		}
		return `url("` + fileutil.ToURL(target, opts.BaseDir) + `")`
	})
}

// resolveAgainst resolves ref relative to the stylesheet sheetRef.
// Remote sheets yield URLs; local sheets yield absolute paths.
func resolveAgainst(sheetRef, ref string, dirs []string) string {
	if fileutil.IsRemote(ref) {
		return ref
	}
	if fileutil.IsRemote(sheetRef) {
		base, err := url.Parse(protocolURL(sheetRef))
		if err != nil {
			return ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(rel).String()
	}
	sheetPath := findLocal(sheetRef, dirs)
	return filepath.Join(filepath.Dir(sheetPath), localPath(ref, "."))
}

// imageDataURI loads an image and encodes it as a data URI when the
// SVG or image limit admits it.
func (in *Inliner) imageDataURI(ctx context.Context, src string, dirs []string, opts InlineOptions) (string, bool) {
	if src == "" || isDataURI(src) {
		return "", false
	}
	if !opts.Images.Enabled() && !opts.SVGs.Enabled() {
		return "", false
	}
	data, ok, err := load(ctx, src, dirs, opts.Fetcher)
	if err != nil || !ok {
		return "", false
	}

	mimeType := contentType(src, data)
	limit := opts.Images
	if mimeType == svgMIME {
		limit = opts.SVGs
	}
	if !limit.Admits(len(data)) {
		return "", false
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func (in *Inliner) minifyText(mediatype, text, ref string) string {
	text = strings.TrimSpace(text)
	if strings.Contains(path.Base(ref), ".min.") {
		return text
	}
	out, err := in.minifier.String(mediatype, text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// load reads a local or remote resource, relative references looked up
// in dirs. ok is false when the resource is remote and no fetcher is
// configured.
func load(ctx context.Context, ref string, dirs []string, fetcher Fetcher) (data []byte, ok bool, err error) {
	if fileutil.IsRemote(ref) {
		if fetcher == nil {
			return nil, false, nil
		}
		data, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}

	p := findLocal(ref, dirs)
	data, err = os.ReadFile(p) // #nosec G304 -- resources referenced by the user's document
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// localPath turns a document reference ("img/a%20b.png?v=1", "file:///x")
// into a filesystem path, relative references joined onto baseDir.
func localPath(ref, baseDir string) string {
	ref = strings.TrimPrefix(ref, "file://")
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	p := filepath.FromSlash(ref)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// findLocal returns the first existing path of ref under dirs, or its
// path under the first dir when none exists.
func findLocal(ref string, dirs []string) string {
	first := ""
	for i, dir := range dirs {
		p := localPath(ref, dir)
		if i == 0 {
			first = p
		}
		if fileutil.FileExists(p) {
			return p
		}
	}
	return first
}

// rebase rewrites attr so a relative reference found outside baseDir
// stays valid from the output document. Query and fragment are kept.
func rebase(s *goquery.Selection, attr, ref string, dirs []string, baseDir string) {
	if ref == "" || isDataURI(ref) || fileutil.IsRemote(ref) || strings.HasPrefix(ref, "#") {
		return
	}
	file := findLocal(ref, dirs)
	if file == localPath(ref, baseDir) || !fileutil.FileExists(file) {
		return
	}
	suffix := ""
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		suffix = ref[i:]
	}
	s.SetAttr(attr, fileutil.ToURL(file, baseDir)+suffix)
}

func contentType(ref string, data []byte) string {
	clean := ref
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(clean))); t != "" {
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	if t := http.DetectContentType(data); t != "" {
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	return defaultDataMIME
}

func isDataURI(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}

func protocolURL(ref string) string {
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	return ref
}
