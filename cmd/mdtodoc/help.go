package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdtodoc <path...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile Markdown files into standalone HTML documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  path    Markdown file, directory or glob pattern (** supported)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -d, --dest <dir>              Output directory (default: beside each source)")
	fmt.Fprintln(w, "  -j, --join                    Join all sources into MERGED.md and compile it")
	fmt.Fprintln(w, "  -w, --watch                   Recompile sources when they change")
	fmt.Fprintln(w, "      --jobs <n>                Files compiled concurrently (0 = sequential)")
	fmt.Fprintln(w, "      --config <name>           Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "  -l, --layout <ref>            Layout: none, page, a path or a URL")
	fmt.Fprintln(w, "  -t, --theme <ref>             Theme: dark, github, simple, a path or a URL")
	fmt.Fprintln(w, "  -s, --highlight-style <ref>   Highlight style: a chroma style name, a path or a URL")
	fmt.Fprintln(w, "  -n, --numbered-headings       Number headings")
	fmt.Fprintln(w, "  -c, --code-copy               Add copy buttons to code blocks")
	fmt.Fprintln(w, "  -m, --mermaid                 Render mermaid diagrams")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Embedding:")
	fmt.Fprintln(w, "  -e, --embed-mode <mode>       light:   inline styles, other resources under 16KB")
	fmt.Fprintln(w, "                                default: inline images and styles, scripts under 16KB")
	fmt.Fprintln(w, "                                full:    inline everything")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Extensions:")
	fmt.Fprintln(w, "  -x, --extension <path>        Extension executable (repeatable)")
	fmt.Fprintln(w, "                                Hooks: postInit, preCompile, preRender, preInline, preWrite")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>        Directory searched before builtin assets")
	fmt.Fprintln(w, "      --cache-dir <dir>         Directory builtin assets are written to")
	fmt.Fprintln(w, "      --timeout <duration>      Remote fetch timeout (default: 30s)")
	fmt.Fprintln(w, "      --sanitize                Strip unsafe HTML from documents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show detailed timing")
	fmt.Fprintln(w, "  -h, --help                    Show this help")
	fmt.Fprintln(w, "      --version                 Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDTODOC_CONFIG, MDTODOC_DEST, MDTODOC_LAYOUT, MDTODOC_THEME,")
	fmt.Fprintln(w, "  MDTODOC_HIGHLIGHT_STYLE, MDTODOC_EMBED_MODE, MDTODOC_ASSET_PATH,")
	fmt.Fprintln(w, "  MDTODOC_TIMEOUT, MDTODOC_JOBS")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdtodoc README.md --layout page --theme github")
	fmt.Fprintln(w, "  mdtodoc docs/ --join --dest dist --embed-mode full")
	fmt.Fprintln(w, "  mdtodoc 'notes/**/*.md' --watch")
}
