package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// MergedFileName is the file JoinFiles writes next to the first source.
const MergedFileName = "MERGED.md"

// ErrJoin indicates the sources could not be merged.
var ErrJoin = errors.New("cannot join files")

var (
	// indexFile matches a directory's landing page
	indexFile = regexp.MustCompile(`(?i)^(readme|index)\.(md|markdown)$`)

	// atxHeading matches an ATX heading marker at the start of a line
	atxHeading = regexp.MustCompile(`^(#{1,6})(\s|$)`)

	// tocLine matches a line holding only a table of contents placeholder
	tocLine = regexp.MustCompile(`(?i)^\s*(\$\{toc\}|\[\[toc\]\]|\[toc\])\s*$`)
)

// isIndexFile returns true for README.md/index.md in any case.
func isIndexFile(path string) bool {
	return indexFile.MatchString(filepath.Base(path))
}

// joinSortKey orders an index file before everything else in its directory,
// including subdirectories. "\x00" sorts before any byte a file name can hold.
func joinSortKey(path string) string {
	p := filepath.ToSlash(path)
	if isIndexFile(path) {
		return strings.TrimSuffix(p[:strings.LastIndex(p, "/")+1], "/") + "/\x00"
	}
	return p
}

// SortForJoin returns paths in join order: index files first in their
// directory, lexical order otherwise. Files named MERGED.md are dropped.
func SortForJoin(paths []string) []string {
	sorted := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.Base(p) == MergedFileName {
			continue
		}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := joinSortKey(sorted[i]), joinSortKey(sorted[j])
		if ki != kj {
			return ki < kj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// JoinFiles merges Markdown files into a single MERGED.md written in the
// directory of the first file in join order. Headings are shifted by each
// file's depth below that directory, relative links are rebased and table of
// contents placeholders are kept only in the first file.
// Returns the path of the merged file.
func JoinFiles(paths []string) (string, error) {
	sorted := SortForJoin(paths)
	if len(sorted) == 0 {
		return "", fmt.Errorf("%w: no source files", ErrJoin)
	}

	base := filepath.Dir(sorted[0])
	var b strings.Builder

	for i, path := range sorted {
		raw, err := os.ReadFile(path) // #nosec G304 -- user-provided source file
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrJoin, err)
		}

		relDir, err := filepath.Rel(base, filepath.Dir(path))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrJoin, err)
		}

		content := StripFrontMatter(normalizeLineEndings(string(raw)))
		content = rewriteForJoin(content, joinDepth(relDir, isIndexFile(path)), filepath.ToSlash(relDir), i == 0)

		b.WriteString(content)
		b.WriteString("\n")
	}

	merged := filepath.Join(base, MergedFileName)
	// #nosec G306 -- merged Markdown is a user document
	if err := os.WriteFile(merged, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrJoin, err)
	}
	return merged, nil
}

// joinDepth is the heading level an H1 takes in the merged document:
// the number of segments of the file's path below the base directory, plus
// one for non-index files so they nest under their directory's index.
func joinDepth(relDir string, index bool) int {
	depth := 1
	if relDir != "." && relDir != "" {
		depth += len(strings.Split(filepath.ToSlash(relDir), "/"))
	}
	if !index {
		depth++
	}
	return depth
}

func rewriteForJoin(content string, depth int, relDir string, first bool) string {
	return mapOutsideFences(content, func(line string) (string, bool) {
		if !first && tocLine.MatchString(line) {
			return "", false
		}
		line = shiftHeading(line, depth)
		if relDir != "." {
			line = strings.ReplaceAll(line, "](./", "](./"+relDir+"/")
		}
		return line, true
	})
}

// shiftHeading turns Hk into H(k+depth-1), capped at H6.
func shiftHeading(line string, depth int) string {
	m := atxHeading.FindStringSubmatchIndex(line)
	if m == nil {
		return line
	}
	level := min(m[3]-m[2]+depth-1, 6)
	return strings.Repeat("#", level) + line[m[3]:]
}
