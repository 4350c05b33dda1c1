package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlDoc is parsed HTML that remembers whether it came from a fragment,
// so it renders back in the same shape.
type htmlDoc struct {
	root       *html.Node
	isFragment bool
	*goquery.Document
}

func parseDoc(content string) (*htmlDoc, error) {
	root, isFragment, err := parseHTML(content)
	if err != nil {
		return nil, err
	}
	return &htmlDoc{root: root, isFragment: isFragment, Document: goquery.NewDocumentFromNode(root)}, nil
}

func (d *htmlDoc) render() (string, error) {
	return renderHTML(d.root, d.isFragment)
}

// parseHTML parses a full document or a body fragment.
// Fragments are parsed in a body context and wrapped in a document node.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
