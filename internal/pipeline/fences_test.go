package pipeline

import (
	"strings"
	"testing"
)

func TestFenceTracker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []bool // inside-fence result per line
	}{
		{
			name:  "backtick fence",
			lines: []string{"a", "```go", "x", "```", "b"},
			want:  []bool{false, true, true, true, false},
		},
		{
			name:  "tilde fence",
			lines: []string{"~~~", "# x", "~~~"},
			want:  []bool{true, true, true},
		},
		{
			name:  "closing needs same char",
			lines: []string{"```", "~~~", "```"},
			want:  []bool{true, true, true},
		},
		{
			name:  "closing may be longer",
			lines: []string{"```", "x", "`````", "y"},
			want:  []bool{true, true, true, false},
		},
		{
			name:  "shorter run does not close",
			lines: []string{"````", "```", "x", "````"},
			want:  []bool{true, true, true, true},
		},
		{
			name:  "four spaces is not a fence",
			lines: []string{"    ```", "x"},
			want:  []bool{false, false},
		},
		{
			name:  "two backticks is not a fence",
			lines: []string{"``", "x"},
			want:  []bool{false, false},
		},
		{
			name:  "backtick info string with backtick",
			lines: []string{"``` a`b", "x"},
			want:  []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var f fenceTracker
			for i, line := range tt.lines {
				if got := f.step(line); got != tt.want[i] {
					t.Errorf("step(%q) line %d = %v, want %v", line, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestMapOutsideFences(t *testing.T) {
	t.Parallel()

	input := "keep\ndrop\n```\ndrop\n```\nkeep"
	got := mapOutsideFences(input, func(line string) (string, bool) {
		if line == "drop" {
			return "", false
		}
		return strings.ToUpper(line), true
	})
	want := "KEEP\n```\ndrop\n```\nKEEP"
	if got != want {
		t.Errorf("mapOutsideFences() = %q, want %q", got, want)
	}
}
