package pipeline

// Notes:
// - JoinFiles write failures (read-only directory) are not tested: root in
//   CI bypasses permissions.
// - Fence edge cases are covered in fences_test.go; here we only check that
//   fenced headings survive a join.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) []string {
	t.Helper()

	paths := make([]string, 0, len(files))
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		paths = append(paths, p)
	}
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestSortForJoin - Index files first, lexical otherwise
// ---------------------------------------------------------------------------

func TestSortForJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "index before siblings and children",
			input: []string{"/d/b.md", "/d/sub/x.md", "/d/README.md", "/d/a.md"},
			want:  []string{"/d/README.md", "/d/a.md", "/d/b.md", "/d/sub/x.md"},
		},
		{
			name:  "nested index before its siblings",
			input: []string{"/d/sub/z.md", "/d/sub/index.md", "/d/README.md"},
			want:  []string{"/d/README.md", "/d/sub/index.md", "/d/sub/z.md"},
		},
		{
			name:  "index matched in any case",
			input: []string{"/d/a.md", "/d/Readme.MD"},
			want:  []string{"/d/Readme.MD", "/d/a.md"},
		},
		{
			name:  "merged file excluded",
			input: []string{"/d/MERGED.md", "/d/a.md"},
			want:  []string{"/d/a.md"},
		},
		{
			name:  "lexical without index",
			input: []string{"/d/c.md", "/d/a.md", "/d/b.md"},
			want:  []string{"/d/a.md", "/d/b.md", "/d/c.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := make([]string, len(tt.input))
			for i, p := range tt.input {
				input[i] = filepath.FromSlash(p)
			}
			got := SortForJoin(input)
			for i := range got {
				got[i] = filepath.ToSlash(got[i])
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("SortForJoin() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestJoinFiles - Heading depth, link rebasing, ToC placeholders
// ---------------------------------------------------------------------------

func TestJoinFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := writeTree(t, root, map[string]string{
		"README.md":        "# Book\n\n[[toc]]\n\n## Intro\n",
		"chapter.md":       "---\ntitle: Chapter\n---\n# Chapter\n\n## Section\n\n![img](./img/a.png)\n",
		"part/index.md":    "# Part\n\n${toc}\n\n[next](./page.md)\n",
		"part/page.md":     "# Page\n\n```md\n# not a heading\n[x](./y)\n```\n",
		"part/deep/x.md":   "# Deep\n\n##### Five\n",
		"part/MERGED.md":   "# stale\n",
		"part/deep/toc.md": "[toc]\n\n# Toc\n",
	})

	merged, err := JoinFiles(paths)
	if err != nil {
		t.Fatalf("JoinFiles() error = %v", err)
	}
	if merged != filepath.Join(root, MergedFileName) {
		t.Errorf("JoinFiles() = %q, want MERGED.md in first file directory", merged)
	}

	got := readFile(t, merged)

	checks := []struct {
		name string
		want string
	}{
		{"index at base keeps H1", "# Book\n"},
		{"first file keeps placeholder", "[[toc]]"},
		{"non-index at base shifted by one", "## Chapter\n"},
		{"subheading shifted by one", "### Section\n"},
		{"base links unchanged", "![img](./img/a.png)"},
		{"nested index shifted by one", "\n## Part\n"},
		{"links rebased onto subdirectory", "[next](./part/page.md)"},
		{"nested page shifted by two", "\n### Page\n"},
		{"fenced code untouched", "```md\n# not a heading\n[x](./y)\n```"},
		{"deep page shifted by three", "\n#### Deep\n"},
		{"heading level capped at six", "\n###### Five\n"},
	}
	for _, c := range checks {
		if !strings.Contains(got, c.want) {
			t.Errorf("%s: merged content missing %q\n%s", c.name, c.want, got)
		}
	}

	excludes := []string{"${toc}", "title: Chapter", "# stale"}
	for _, ex := range excludes {
		if strings.Contains(got, ex) {
			t.Errorf("merged content should not contain %q\n%s", ex, got)
		}
	}
	if strings.Count(strings.ToLower(got), "[toc]") != 1 {
		t.Errorf("only the first file placeholder should remain\n%s", got)
	}
}

func TestJoinFiles_Order(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := writeTree(t, root, map[string]string{
		"b.md":      "B\n",
		"a.md":      "A\n",
		"README.md": "R\n",
	})

	merged, err := JoinFiles(paths)
	if err != nil {
		t.Fatalf("JoinFiles() error = %v", err)
	}
	if got := readFile(t, merged); got != "R\n\nA\n\nB\n\n" {
		t.Errorf("merged = %q, want README then a then b", got)
	}
}

func TestJoinFiles_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := writeTree(t, root, map[string]string{
		"README.md": "# Home\n",
		"a.md":      "# A\n",
	})

	first, err := JoinFiles(paths)
	if err != nil {
		t.Fatalf("JoinFiles() error = %v", err)
	}
	want := readFile(t, first)

	// A second run sees the previous MERGED.md among its inputs
	second, err := JoinFiles(append(paths, first))
	if err != nil {
		t.Fatalf("JoinFiles() second run error = %v", err)
	}
	if got := readFile(t, second); got != want {
		t.Errorf("second join = %q, want %q", got, want)
	}
}

func TestJoinFiles_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no files", func(t *testing.T) {
		t.Parallel()

		_, err := JoinFiles(nil)
		if !errors.Is(err, ErrJoin) {
			t.Errorf("JoinFiles(nil) error = %v, want ErrJoin", err)
		}
	})

	t.Run("only merged file", func(t *testing.T) {
		t.Parallel()

		_, err := JoinFiles([]string{filepath.Join(t.TempDir(), MergedFileName)})
		if !errors.Is(err, ErrJoin) {
			t.Errorf("JoinFiles() error = %v, want ErrJoin", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := JoinFiles([]string{filepath.Join(t.TempDir(), "missing.md")})
		if !errors.Is(err, ErrJoin) {
			t.Errorf("JoinFiles() error = %v, want ErrJoin", err)
		}
	})
}

func TestShiftHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		depth int
		want  string
	}{
		{"# Title", 1, "# Title"},
		{"# Title", 2, "## Title"},
		{"## Sub", 3, "#### Sub"},
		{"###### Max", 2, "###### Max"},
		{"#", 2, "##"},
		{"#hashtag", 2, "#hashtag"},
		{"plain", 3, "plain"},
	}

	for _, tt := range tests {
		if got := shiftHeading(tt.line, tt.depth); got != tt.want {
			t.Errorf("shiftHeading(%q, %d) = %q, want %q", tt.line, tt.depth, got, tt.want)
		}
	}
}
