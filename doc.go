// Package mdtodoc compiles Markdown documents into standalone HTML files.
//
// # Quick Start
//
// Create a processor and compile files, directories or glob patterns:
//
//	proc, err := mdtodoc.NewProcessor(
//	    mdtodoc.WithStyle(mdtodoc.StyleOptions{
//	        Layout: "page",
//	        Theme:  "github",
//	    }),
//	    mdtodoc.WithReporter(os.Stdout),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := proc.Process(ctx, []string{"docs/**/*.md"})
//
// Each source produces <name>.html beside it, or in the directory given
// to WithDest.
//
// # Compile Pipeline
//
// Every source goes through these stages:
//
//  1. front matter stripping and Markdown preprocessing (==highlight==)
//  2. goldmark conversion (GFM, footnotes, emoji, chroma highlighting,
//     mermaid blocks)
//  3. body post-processing (table of contents, code-copy blocks,
//     optional sanitizing)
//  4. layout rendering with the resolved stylesheets and scripts
//  5. resource embedding according to the embed mode
//
// Extensions can transform the record passed between stages through the
// postInit, preCompile, preRender, preInline and preWrite hooks.
//
// # Styles
//
// Layouts, themes and highlight styles are referenced by builtin name,
// local path or remote URL. Highlight style names are the chroma style
// names ("github", "monokai", ...). Feature modules add numbered headings,
// code-copy buttons and mermaid diagrams.
//
// # Joining
//
// WithJoin merges a tree of Markdown files into MERGED.md before
// compiling. Index files (README.md, index.md) open their directory and
// heading levels are shifted by directory depth.
//
// # Embedding
//
// The embed mode decides which resources are inlined into the output:
//
//	light:   stylesheets; images, SVGs and scripts below 16KB
//	default: stylesheets, images and SVGs; scripts below 16KB
//	full:    everything
//
// # Command line
//
// The mdtodoc command in cmd/mdtodoc wraps Processor with flags,
// MDTODOC_* environment variables and an optional YAML config file:
//
//	mdtodoc docs/ --join --dest dist --embed-mode full
package mdtodoc
