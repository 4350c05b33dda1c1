package pipeline

import (
	"math/rand/v2"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Classes set on rendered code blocks.
const (
	CodeBlockClass = "code-block"
	MermaidClass   = "mermaid"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomID returns "_" followed by 9 random base36 characters.
func RandomID() string {
	var b strings.Builder
	b.WriteByte('_')
	for range 9 {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))]) // #nosec G404 -- element ids, not secrets
	}
	return b.String()
}

// BodyOptions controls the HTML post-processing of a compiled body.
type BodyOptions struct {
	CodeCopy bool          // add a hidden copy of each code block for the copy button
	Sanitize bool          // run the UGC sanitizer over the body
	NewID    func() string // textarea id generator; RandomID when nil
}

// sanitizer is bluemonday's UGC policy, keeping class attributes so
// highlighting, mermaid and ToC markup survive.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	return p
}()

// Sanitize strips unsafe markup from an HTML fragment.
func Sanitize(body string) string {
	return sanitizer.Sanitize(body)
}

// FinishBody turns goldmark output into the final body: optional sanitizing,
// table of contents, code block normalization and code-copy blocks.
func FinishBody(body string, opts BodyOptions) (string, error) {
	if opts.Sanitize {
		body = Sanitize(body)
	}
	body = InsertTOC(body)

	doc, err := parseDoc(body)
	if err != nil {
		return "", err
	}
	normalizePre(doc.Selection)
	if opts.CodeCopy {
		newID := opts.NewID
		if newID == nil {
			newID = RandomID
		}
		addCopyBlocks(doc.Selection, newID)
	}
	return doc.render()
}

// normalizePre gives every non-mermaid <pre> the code-block class.
func normalizePre(sel *goquery.Selection) {
	sel.Find("pre").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass(MermaidClass) {
			return
		}
		s.AddClass(CodeBlockClass)
	})
}

// addCopyBlocks appends a <textarea> holding each code block's text.
func addCopyBlocks(sel *goquery.Selection, newID func() string) {
	sel.Find("pre." + CodeBlockClass).Each(func(_ int, s *goquery.Selection) {
		if s.Find("textarea").Length() > 0 {
			return
		}
		code := strings.TrimSpace(s.Text())
		ta := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Textarea,
			Data:     "textarea",
			Attr: []html.Attribute{
				{Key: "id", Val: newID()},
				{Key: "rows", Val: "1"},
				{Key: "cols", Val: "2"},
			},
		}
		ta.AppendChild(&html.Node{Type: html.TextNode, Data: code})
		s.Get(0).AppendChild(ta)
	})
}

// ExtractTitle returns the text of the first <h1>, or "".
func ExtractTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
