package pipeline

import (
	"strings"

	"github.com/alnah/go-mdtodoc/internal/yamlutil"
)

// frontMatterDelimiters are the accepted front matter fences.
var frontMatterDelimiters = []string{"---", "+++", ";;;"}

// SplitFrontMatter separates a leading front matter block from content.
// The block starts on the first line with three identical '-', '+' or ';'
// characters and ends at the next line with the same delimiter.
// Returns the raw block (without delimiters) and the remaining body.
// Content without a complete block is returned unchanged as body.
func SplitFrontMatter(content string) (meta, body string) {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok {
		return "", content
	}
	delim := strings.TrimRight(first, " \t\r")
	if !isFrontMatterDelimiter(delim) {
		return "", content
	}

	offset := 0
	for offset <= len(rest) {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, " \t\r") == delim {
			meta = rest[:offset]
			if !more {
				return meta, ""
			}
			return meta, next
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	return "", content
}

// StripFrontMatter removes a leading front matter block, if any.
func StripFrontMatter(content string) string {
	_, body := SplitFrontMatter(content)
	return body
}

// FrontMatterTitle returns the "title" value of YAML front matter, or "".
func FrontMatterTitle(content string) string {
	meta, _ := SplitFrontMatter(content)
	if strings.TrimSpace(meta) == "" {
		return ""
	}
	return strings.TrimSpace(yamlutil.StringField([]byte(meta), "title"))
}

func isFrontMatterDelimiter(s string) bool {
	for _, d := range frontMatterDelimiters {
		if s == d {
			return true
		}
	}
	return false
}
