package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged and are turned into <mark> tags
// once the HTML is generated.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==([^=\s](?:.*?[^=\s])?)==`)
)

// MarkdownPreprocessor prepares Markdown before conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes line endings, drops front matter,
// marks ==highlights== and squeezes runs of blank lines. Fenced code is
// left untouched.
type CommonMarkPreprocessor struct{}

var _ MarkdownPreprocessor = (*CommonMarkPreprocessor)(nil)

// PreprocessMarkdown applies all transformations to content.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = StripFrontMatter(content)
	return transformOutsideFences(content)
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// transformOutsideFences converts highlights and keeps at most one blank
// line between blocks, skipping fenced code.
func transformOutsideFences(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var fence fenceTracker
	blank := 0
	for _, line := range lines {
		if fence.step(line) {
			blank = 0
			out = append(out, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, convertHighlights(line))
	}
	return strings.Join(out, "\n")
}

func convertHighlights(line string) string {
	if !strings.Contains(line, "==") || strings.Contains(line, "`") {
		return line
	}
	return highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
