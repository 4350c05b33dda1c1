package mdtodoc

import (
	"errors"

	"github.com/alnah/go-mdtodoc/internal/assets"
	"github.com/alnah/go-mdtodoc/internal/fetch"
	"github.com/alnah/go-mdtodoc/internal/pipeline"
)

// Sentinel errors for library operations. Messages are user-facing and
// printed as is by the CLI.
var (
	ErrInvalidSource    = errors.New("Invalid source file(s) (should be valid .md files).")
	ErrInvalidDest      = errors.New("Invalid output path (should be a valid directory).")
	ErrInvalidEmbedMode = errors.New("invalid embed mode")
	ErrExtension        = errors.New("extension failure")
	ErrWrite            = errors.New("cannot write output file")
)

// Errors re-exported from internal packages so callers can match them
// with errors.Is without importing internals.
var (
	ErrInvalidResource = assets.ErrInvalidResource
	ErrPathTraversal   = assets.ErrPathTraversal
	ErrFetch           = fetch.ErrFetch
	ErrEmptyContent    = fetch.ErrEmptyContent
	ErrHTMLConversion  = pipeline.ErrHTMLConversion
	ErrLayoutParse     = pipeline.ErrLayoutParse
	ErrLayoutRender    = pipeline.ErrLayoutRender
	ErrInline          = pipeline.ErrInline
	ErrJoin            = pipeline.ErrJoin
)

// ResourceError reports a layout, theme, highlight style, source or
// extension reference that could not be resolved. Kind names which.
type ResourceError = assets.ResourceError
