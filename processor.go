package mdtodoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-mdtodoc/internal/assets"
	"github.com/alnah/go-mdtodoc/internal/fetch"
	"github.com/alnah/go-mdtodoc/internal/fileutil"
	"github.com/alnah/go-mdtodoc/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Fetcher              = (*fetch.Client)(nil)
)

// AssetsVersion names the cache subdirectory builtin assets are written to.
// It changes whenever the bundled assets do.
const AssetsVersion = "v1"

// filePermissions is the mode of written HTML files.
const filePermissions = 0o644 // rw-r--r--

const sourceKind = "source file"

// Result is the outcome of compiling one source.
type Result struct {
	Source string // Markdown file
	Output string // written HTML file, empty on failure
	Err    error
}

type processorConfig struct {
	style          StyleOptions
	dest           string
	join           bool
	jobs           int
	assetDir       string
	cacheDir       string
	timeout        time.Duration
	sanitize       bool
	extensions     []any
	extensionPaths []string
	reporter       io.Writer
	errReporter    io.Writer
	httpClient     *http.Client
	newID          func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithStyle sets the layout, theme, highlight style, feature modules and
// embed mode.
func WithStyle(opts StyleOptions) Option {
	return func(p *Processor) {
		p.cfg.style = opts
	}
}

// WithDest writes outputs into dir instead of beside each source.
func WithDest(dir string) Option {
	return func(p *Processor) {
		p.cfg.dest = dir
	}
}

// WithJoin merges all sources into one document before compiling.
func WithJoin(join bool) Option {
	return func(p *Processor) {
		p.cfg.join = join
	}
}

// WithJobs sets the number of files compiled concurrently.
// Values below 2 compile sequentially and stop on the first error.
func WithJobs(n int) Option {
	return func(p *Processor) {
		p.cfg.jobs = n
	}
}

// WithAssetDir adds a directory searched for layouts, themes and highlight
// styles before the builtin ones.
func WithAssetDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.assetDir = dir
	}
}

// WithCacheDir sets where builtin assets are materialized.
func WithCacheDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.cacheDir = dir
	}
}

// WithTimeout bounds each remote fetch.
// Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdtodoc: WithTimeout duration must be positive")
	}
	return func(p *Processor) {
		p.cfg.timeout = d
	}
}

// WithSanitize runs compiled bodies through an HTML sanitizer.
func WithSanitize(sanitize bool) Option {
	return func(p *Processor) {
		p.cfg.sanitize = sanitize
	}
}

// WithExtensions registers in-process extensions. Each value implements
// any of PostIniter, PreCompiler, PreRenderer, PreInliner and PreWriter,
// or is a HookFuncs.
func WithExtensions(exts ...any) Option {
	return func(p *Processor) {
		p.cfg.extensions = append(p.cfg.extensions, exts...)
	}
}

// WithExtensionPaths registers executable extensions, loaded at Init.
// They run after in-process extensions, in the given order.
func WithExtensionPaths(paths ...string) Option {
	return func(p *Processor) {
		p.cfg.extensionPaths = append(p.cfg.extensionPaths, paths...)
	}
}

// WithReporter receives one "<src> -> <out>" line per written file.
func WithReporter(w io.Writer) Option {
	return func(p *Processor) {
		p.cfg.reporter = w
	}
}

// WithErrorReporter receives errors Watch recovers from.
func WithErrorReporter(w io.Writer) Option {
	return func(p *Processor) {
		p.cfg.errReporter = w
	}
}

// WithHTTPClient replaces the client used for remote resources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Processor) {
		p.cfg.httpClient = c
	}
}

// withIDGenerator fixes code-copy ids; used by tests.
func withIDGenerator(fn func() string) Option {
	return func(p *Processor) {
		p.cfg.newID = fn
	}
}

// Processor compiles Markdown files into standalone HTML documents.
// Create with NewProcessor and call Process or Watch. A Processor is
// initialized once and may be reused; it is safe for concurrent use after
// Init.
type Processor struct {
	cfg           processorConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	inliner       *pipeline.Inliner
	client        *fetch.Client

	initMu sync.Mutex
	style  *Style
	chain  hookChain

	reportMu sync.Mutex
}

// NewProcessor creates a Processor. Resources are resolved later by Init.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg:           processorConfig{timeout: fetch.DefaultTimeout},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		inliner:       pipeline.NewInliner(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.style.EmbedMode == "" {
		p.cfg.style.EmbedMode = EmbedDefault
	}
	if !p.cfg.style.EmbedMode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmbedMode, p.cfg.style.EmbedMode)
	}
	if p.cfg.cacheDir == "" {
		p.cfg.cacheDir = assets.DefaultCacheDir(AssetsVersion)
	}
	if p.cfg.reporter == nil {
		p.cfg.reporter = io.Discard
	}
	if p.cfg.errReporter == nil {
		p.cfg.errReporter = io.Discard
	}

	if p.cfg.httpClient != nil {
		p.client = fetch.NewClientWith(p.cfg.httpClient)
	} else {
		p.client = fetch.NewClient(p.cfg.timeout)
	}
	return p, nil
}

// Init resolves the style and loads extensions. The postInit hook sees
// the layout source. Init runs at most once successfully; Process calls
// it on demand.
func (p *Processor) Init(ctx context.Context) error {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	if p.style != nil {
		return nil
	}

	chain := hookChain{extensions: append([]any(nil), p.cfg.extensions...)}
	for _, path := range p.cfg.extensionPaths {
		ext, err := LoadExecExtension(ctx, path)
		if err != nil {
			return err
		}
		chain.extensions = append(chain.extensions, ext)
	}

	locator, err := assets.NewLocator(p.cfg.cacheDir, p.cfg.assetDir)
	if err != nil {
		return err
	}

	var layoutHook LayoutHook
	if chain.implements(HookPostInit) {
		layoutHook = func(ctx context.Context, layout string) (string, error) {
			out, err := chain.run(ctx, HookPostInit, HookData{"layout": layout})
			if err != nil {
				return "", err
			}
			return out["layout"], nil
		}
	}

	style := NewStyle(p.cfg.style, locator, p.client)
	if err := style.Init(ctx, layoutHook); err != nil {
		return err
	}

	p.style, p.chain = style, chain
	return nil
}

// Process compiles the Markdown files named by paths. A path is a file,
// a directory (walked for Markdown files) or a glob pattern (`**`
// supported). In join mode every source is merged into MERGED.md first.
//
// Sequential runs stop at the first failure; with WithJobs(n > 1) every
// file is attempted and failures are joined into the returned error.
func (p *Processor) Process(ctx context.Context, paths []string) ([]Result, error) {
	sources, err := ExpandSources(paths)
	if err != nil {
		return nil, err
	}
	if err := p.checkDest(); err != nil {
		return nil, err
	}
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	return p.compileAll(ctx, sources)
}

func (p *Processor) compileAll(ctx context.Context, sources []string) ([]Result, error) {
	if p.cfg.join {
		merged, err := pipeline.JoinFiles(sources)
		if err != nil {
			return nil, err
		}
		sources = []string{merged}
	}

	if p.cfg.jobs <= 1 {
		results := make([]Result, 0, len(sources))
		for _, src := range sources {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			r := p.compileFile(ctx, src)
			results = append(results, r)
			if r.Err != nil {
				return results, r.Err
			}
		}
		return results, nil
	}

	results := runBatch(ctx, p.cfg.jobs, sources, p.compileFile)
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (p *Processor) checkDest() error {
	if p.cfg.dest != "" && !fileutil.IsDir(p.cfg.dest) {
		return ErrInvalidDest
	}
	return nil
}

// OutputPath returns the HTML file written for src.
func (p *Processor) OutputPath(src string) string {
	return filepath.Join(p.outDir(src), fileutil.TrimExt(filepath.Base(src))+".html")
}

func (p *Processor) outDir(src string) string {
	if p.cfg.dest == "" {
		return absDir(src)
	}
	if abs, err := filepath.Abs(p.cfg.dest); err == nil {
		return abs
	}
	return p.cfg.dest
}

// absDir returns the absolute directory of path.
func absDir(path string) string {
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// compileFile runs one source through the pipeline and writes its output.
func (p *Processor) compileFile(ctx context.Context, src string) Result {
	result := Result{Source: src}
	html, err := p.compile(ctx, src)
	if err != nil {
		result.Err = err
		return result
	}

	out := p.OutputPath(src)
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(out, []byte(html), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWrite, err)
		return result
	}
	result.Output = out
	p.report(src, out)
	return result
}

func (p *Processor) compile(ctx context.Context, src string) (string, error) {
	if !fileutil.IsReadable(src) {
		return "", assets.NewResourceError(sourceKind, src, nil)
	}
	data, err := os.ReadFile(src) // #nosec G304 -- user-selected source
	if err != nil {
		return "", assets.NewResourceError(sourceKind, src, err)
	}

	rec, err := p.chain.run(ctx, HookPreCompile, HookData{"path": src, "md": string(data)})
	if err != nil {
		return "", err
	}
	md := rec["md"]

	mdContent := p.preprocessor.PreprocessMarkdown(ctx, md)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	body, err := p.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return "", err
	}
	body, err = pipeline.FinishBody(body, pipeline.BodyOptions{
		CodeCopy: p.cfg.style.CodeCopy,
		Sanitize: p.cfg.sanitize,
		NewID:    p.cfg.newID,
	})
	if err != nil {
		return "", err
	}

	rec, err = p.chain.run(ctx, HookPreRender, HookData{"path": src, "title": documentTitle(src, md, body), "body": body})
	if err != nil {
		return "", err
	}

	outDir := p.outDir(src)
	page, err := p.style.Render(ctx, outDir, rec["title"], rec["body"])
	if err != nil {
		return "", err
	}

	rec, err = p.chain.run(ctx, HookPreInline, HookData{"path": src, "html": page})
	if err != nil {
		return "", err
	}

	opts := p.cfg.style.EmbedMode.Options()
	opts.BaseDir = outDir
	opts.SourceDir = absDir(src)
	opts.Fetcher = p.client
	page, err = p.inliner.Inline(ctx, rec["html"], opts)
	if err != nil {
		return "", err
	}

	rec, err = p.chain.run(ctx, HookPreWrite, HookData{"path": src, "html": page})
	if err != nil {
		return "", err
	}
	return rec["html"], nil
}

// documentTitle picks the first h1, then the front-matter title, then
// the file name.
func documentTitle(src, md, body string) string {
	if title := pipeline.ExtractTitle(body); title != "" {
		return title
	}
	if title := pipeline.FrontMatterTitle(md); title != "" {
		return title
	}
	return filepath.Base(src)
}

func (p *Processor) report(src, out string) {
	p.reportf("%s -> %s\n", src, out)
}

func (p *Processor) reportf(format string, args ...any) {
	p.reportMu.Lock()
	defer p.reportMu.Unlock()
	_, _ = fmt.Fprintf(p.cfg.reporter, format, args...)
}

func (p *Processor) reportError(err error) {
	p.reportMu.Lock()
	defer p.reportMu.Unlock()
	_, _ = fmt.Fprintln(p.cfg.errReporter, err)
}

// ExpandSources turns file, directory and glob paths into a deduplicated
// list of Markdown files. Order follows paths; directory and glob matches
// are sorted and never include MERGED.md. Plain file paths are kept even
// if they do not exist yet, so unreadable sources fail at compile time.
func ExpandSources(paths []string) ([]string, error) {
	var sources []string
	seen := make(map[string]bool)
	add := func(path string) error {
		if !fileutil.IsMarkdown(path) {
			return ErrInvalidSource
		}
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			sources = append(sources, path)
		}
		return nil
	}

	for _, arg := range paths {
		if arg == "" {
			continue
		}
		var matches []string
		var err error
		switch {
		case fileutil.IsDir(arg):
			matches, err = walkMarkdown(arg)
		case fileutil.FileExists(arg):
			matches = []string{arg}
		case isGlob(arg):
			matches, err = globFiles(arg)
		default:
			matches = []string{arg}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}

	if len(sources) == 0 {
		return nil, ErrInvalidSource
	}
	return sources, nil
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// globFiles expands pattern, keeping regular files other than join
// output only.
func globFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		if !isMergedFile(m) {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// isMergedFile reports whether path is the output of a previous join.
func isMergedFile(path string) bool {
	return filepath.Base(path) == pipeline.MergedFileName
}

// walkMarkdown lists Markdown files under dir, skipping hidden directories
// and join output.
func walkMarkdown(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if fileutil.IsMarkdown(path) && !isMergedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
