package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// TOC depth bounds: H2 and H3 headings are listed.
const (
	tocMinDepth = 2
	tocMaxDepth = 3
)

var (
	// headingPattern matches h1-h6 tags with id attribute.
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	// tocParagraph matches a paragraph holding only a placeholder
	tocParagraph = regexp.MustCompile(`(?i)<p>\s*(\$\{toc\}|\[\[toc\]\]|\[toc\])\s*</p>`)
)

type headingInfo struct {
	Level int
	ID    string
	Text  string
}

// stripHTMLTags removes tags and decodes entities, leaving plain text.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	headings := make([]headingInfo, 0, len(matches))
	for _, m := range matches {
		level := int(m[1][0] - '0')
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    html.UnescapeString(m[2]),
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// InsertTOC replaces every table of contents placeholder paragraph
// (${toc}, [[toc]] or [toc]) with a nested list of the document's H2-H3
// headings. Content without a placeholder is returned unchanged.
func InsertTOC(body string) string {
	if !tocParagraph.MatchString(body) {
		return body
	}
	toc := generateTOC(extractHeadings(body, tocMinDepth, tocMaxDepth))
	return tocParagraph.ReplaceAllLiteralString(body, toc)
}

// generateTOC renders headings as nested ordered lists. A heading deeper
// than its predecessor opens a sublist, whatever the gap between levels;
// a shallower one closes sublists down to the nearest enclosing level.
func generateTOC(headings []headingInfo) string {
	var buf strings.Builder
	buf.WriteString(`<nav class="table-of-contents"><ol>`)

	var stack []int // levels of the open lists, innermost last
	for i, h := range headings {
		switch {
		case i == 0:
			stack = append(stack, h.Level)
		case h.Level > stack[len(stack)-1]:
			buf.WriteString(`<ol>`)
			stack = append(stack, h.Level)
		default:
			buf.WriteString(`</li>`)
			for len(stack) > 1 && h.Level <= stack[len(stack)-2] {
				buf.WriteString(`</ol></li>`)
				stack = stack[:len(stack)-1]
			}
			stack[len(stack)-1] = h.Level
		}
		buf.WriteString(`<li><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a>`)
	}

	if len(headings) > 0 {
		buf.WriteString(`</li>`)
		for range len(stack) - 1 {
			buf.WriteString(`</ol></li>`)
		}
	}
	buf.WriteString(`</ol></nav>`)
	return buf.String()
}
