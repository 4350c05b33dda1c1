package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMermaidBlock is the node kind of a mermaid diagram block.
var KindMermaidBlock = ast.NewNodeKind("MermaidBlock")

// MermaidBlock holds the source of a ```mermaid fenced block. It renders as
// <pre class="mermaid"> so the mermaid runtime can draw it in the browser.
type MermaidBlock struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *MermaidBlock) Kind() ast.NodeKind {
	return KindMermaidBlock
}

// IsRaw implements ast.Node.
func (n *MermaidBlock) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *MermaidBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// mermaidTransformer swaps mermaid fenced code blocks for MermaidBlock nodes
// before the highlighter sees them.
type mermaidTransformer struct{}

var _ parser.ASTTransformer = (*mermaidTransformer)(nil)

var mermaidLanguage = []byte("mermaid")

func (t *mermaidTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var blocks []*ast.FencedCodeBlock

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if bytes.EqualFold(fcb.Language(source), mermaidLanguage) {
			blocks = append(blocks, fcb)
		}
		return ast.WalkSkipChildren, nil
	})

	// Replace after walking so the walk never sees a mutated tree
	for _, fcb := range blocks {
		mb := &MermaidBlock{}
		mb.SetLines(fcb.Lines())
		fcb.Parent().ReplaceChild(fcb.Parent(), fcb, mb)
	}
}

type mermaidRenderer struct{}

var _ renderer.NodeRenderer = (*mermaidRenderer)(nil)

func (r *mermaidRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMermaidBlock, r.render)
}

func (r *mermaidRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<pre class="mermaid">`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</pre>\n")
	return ast.WalkSkipChildren, nil
}

// mermaidExtension wires the transformer and renderer into goldmark.
type mermaidExtension struct{}

// Mermaid is a goldmark extension rendering ```mermaid blocks as diagrams.
var Mermaid goldmark.Extender = &mermaidExtension{}

func (e *mermaidExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(&mermaidTransformer{}, 100)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&mermaidRenderer{}, 100)))
}
