package pipeline

import "strings"

// fenceTracker follows fenced code blocks (``` or ~~~) line by line so
// Markdown rewrites can leave code untouched.
type fenceTracker struct {
	marker string // opening fence run; "" when outside a block
}

// step consumes one line and reports whether it belongs to a fenced block,
// delimiters included.
func (f *fenceTracker) step(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	indented := len(line)-len(trimmed) > 3

	if f.marker == "" {
		if indented {
			return false
		}
		if m := fenceOpening(trimmed); m != "" {
			f.marker = m
			return true
		}
		return false
	}

	if !indented && isFenceClosing(trimmed, f.marker) {
		f.marker = ""
	}
	return true
}

// fenceOpening returns the fence run opening a code block, or "".
func fenceOpening(s string) string {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return ""
	}
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	// Backtick fences cannot carry backticks in their info string
	if s[0] == '`' && strings.Contains(s[n:], "`") {
		return ""
	}
	return s[:n]
}

func isFenceClosing(s, marker string) bool {
	s = strings.TrimRight(s, " \t")
	if len(s) < len(marker) {
		return false
	}
	return strings.Trim(s, marker[:1]) == ""
}

// mapOutsideFences applies fn to every line outside fenced code blocks.
// Lines inside fences are kept verbatim. fn returning keep=false drops the line.
func mapOutsideFences(content string, fn func(line string) (out string, keep bool)) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var fence fenceTracker
	for _, line := range lines {
		if fence.step(line) {
			out = append(out, line)
			continue
		}
		if mapped, keep := fn(line); keep {
			out = append(out, mapped)
		}
	}
	return strings.Join(out, "\n")
}
