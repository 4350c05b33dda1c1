// Package assets resolves layout, theme and highlight-style references.
//
// # Resolution
//
// A reference is classified structurally:
//
//	https://host/x.css, //host/x.css  remote, returned unchanged
//	github, solarized-dark            builtin name, looked up by kind
//	./styles/site.css                 local path, must be readable
//
// Builtin names are searched in a custom asset directory first (when
// configured), then in the builtin directory. A name that matches no builtin
// falls through to the local path check.
//
// # Builtin Directory
//
// Builtin assets are embedded at compile time and materialized into a cache
// directory on first use, so generated HTML can reference them by relative
// URL. Highlight styles are generated from the chroma style registry, so any
// chroma style name is a valid builtin highlight style.
//
//	{dir}/
//	├── layouts/{name}.html
//	├── themes/{name}.css
//	├── highlight-styles/{name}.css
//	└── ext/                       # feature module CSS/JS
//
// # Security
//
// Names are validated against a strict pattern. Lookups in the custom
// directory resolve symlinks and verify paths stay within it.
package assets
