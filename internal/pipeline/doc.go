// Package pipeline implements the Markdown-to-HTML compilation stages:
//   - Markdown preprocessing (line endings, front matter, highlight syntax)
//   - multi-file joining into a single MERGED.md
//   - Markdown to HTML conversion via goldmark, mermaid blocks included
//   - body post-processing (table of contents, code blocks, sanitizing)
//   - layout templates
//   - embedding of stylesheets, scripts and images
//
// Resource resolution lives in internal/assets; the root mdtodoc package
// drives these stages per source file.
package pipeline
