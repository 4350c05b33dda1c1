package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that do not change what is compiled.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	help    bool
	version bool
}

// styleFlags holds layout, theme and feature module flags.
type styleFlags struct {
	layout           string
	theme            string
	highlightStyle   string
	numberedHeadings bool
	codeCopy         bool
	mermaid          bool
	embedMode        string
}

// assetFlags holds asset lookup and network flags.
type assetFlags struct {
	assetPath string // searched before builtin assets
	cacheDir  string // where builtin assets are written
	timeout   string // remote fetch timeout, e.g. 10s
}

// cliFlags holds every flag of the mdtodoc command.
type cliFlags struct {
	common     commonFlags
	style      styleFlags
	assets     assetFlags
	dest       string
	join       bool
	extensions []string
	watch      bool
	jobs       int
	sanitize   bool

	// changed records flags given on the command line, so unset flags
	// never override config or environment values.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.version, "version", false, "show version")
}

// addStyleFlags adds style flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.layout, "layout", "l", "", "layout name, path or URL")
	fs.StringVarP(&f.theme, "theme", "t", "", "theme name, path or URL")
	fs.StringVarP(&f.highlightStyle, "highlight-style", "s", "", "highlight style name, path or URL")
	fs.BoolVarP(&f.numberedHeadings, "numbered-headings", "n", false, "number headings")
	fs.BoolVarP(&f.codeCopy, "code-copy", "c", false, "add copy buttons to code blocks")
	fs.BoolVarP(&f.mermaid, "mermaid", "m", false, "render mermaid diagrams")
	fs.StringVarP(&f.embedMode, "embed-mode", "e", "", "embedding level: light, default, full")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched before builtin assets")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "directory builtin assets are written to")
	fs.StringVar(&f.timeout, "timeout", "", "remote fetch timeout (e.g., 10s, 1m)")
}

// parseFlags parses command line arguments, without the program name.
// It returns the flags and the positional paths.
func parseFlags(args []string, errOut io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdtodoc", flag.ContinueOnError)
	fs.SetOutput(errOut)
	f := &cliFlags{}

	// I/O flags
	fs.StringVarP(&f.dest, "dest", "d", "", "output directory (default: beside each source)")
	fs.BoolVarP(&f.join, "join", "j", false, "join all sources into one document")
	fs.StringArrayVarP(&f.extensions, "extension", "x", nil, "extension executable (repeatable)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "recompile sources when they change")
	fs.IntVar(&f.jobs, "jobs", 0, "files compiled concurrently (0 = sequential)")
	fs.BoolVar(&f.sanitize, "sanitize", false, "strip unsafe HTML from documents")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addStyleFlags(fs, &f.style)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printUsage(errOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}

	f.changed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
