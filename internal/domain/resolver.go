package domain

import (
	"strings"
	"unicode"
)

// MatchOptions controls how pattern lines are compared with file lines
type MatchOptions struct {
	ExactMatch bool // whole trimmed line must equal the pattern line
	IgnoreCase bool
}

// PatternLines splits snippet text on any line-break style, trims each
// line and drops the empty ones.
func PatternLines(snippet string) []string {
	snippet = strings.ReplaceAll(snippet, "\r\n", "\n")
	snippet = strings.ReplaceAll(snippet, "\r", "\n")

	var out []string
	for _, line := range strings.Split(snippet, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Locate returns the 1-based line where the reference's snippet currently
// starts in lines. The first window whose lines all match wins. ok is false
// when the snippet is empty or no window matches.
func Locate(lines []string, ref CodeReference, opts MatchOptions) (line int, ok bool) {
	pattern := PatternLines(ref.SnippetText)
	k := len(pattern)
	if k == 0 || k > len(lines) {
		return 0, false
	}
	if opts.IgnoreCase {
		for i, p := range pattern {
			pattern[i] = strings.ToLower(p)
		}
	}

	for start := 0; start+k <= len(lines); start++ {
		if windowMatches(lines[start:start+k], pattern, opts) {
			return start + 1, true
		}
	}
	return 0, false
}

func windowMatches(window, pattern []string, opts MatchOptions) bool {
	for i, p := range pattern {
		current := strings.TrimSpace(window[i])
		if opts.IgnoreCase {
			current = strings.ToLower(current)
		}
		if opts.ExactMatch {
			if current != p {
				return false
			}
		} else if !strings.Contains(current, p) {
			return false
		}
	}
	return true
}

// ResolveLine locates the reference and falls back to its recorded TopLine
// when the snippet can no longer be found. resolved reports which one it is.
func ResolveLine(lines []string, ref CodeReference, opts MatchOptions) (line int, resolved bool) {
	if l, ok := Locate(lines, ref, opts); ok {
		return l, true
	}
	return ref.TopLine, false
}

// FirstNonWhitespaceColumn returns the 0-based character column of the first
// non-space character of line, or the line's rune count for a blank line.
func FirstNonWhitespaceColumn(line string) int {
	col := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return col
}
