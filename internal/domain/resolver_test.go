package domain

import (
	"fmt"
	"slices"
	"testing"
)

// numberedFile returns n lines "line 1" .. "line n"
func numberedFile(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func TestPatternLines(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    []string
	}{
		{name: "single line", snippet: "  foo();  ", want: []string{"foo();"}},
		{name: "unix breaks", snippet: "foo();\nbar();", want: []string{"foo();", "bar();"}},
		{name: "windows breaks", snippet: "foo();\r\nbar();", want: []string{"foo();", "bar();"}},
		{name: "old mac breaks", snippet: "foo();\rbar();", want: []string{"foo();", "bar();"}},
		{name: "blank lines dropped", snippet: "foo();\n\n   \n\tbar();\n", want: []string{"foo();", "bar();"}},
		{name: "only whitespace", snippet: " \n\t\r\n", want: nil},
		{name: "empty", snippet: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PatternLines(tt.snippet)
			if !slices.Equal(got, tt.want) {
				t.Errorf("PatternLines(%q) = %q, want %q", tt.snippet, got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	file := []string{
		"package main",
		"",
		"func main() {",
		"    foo();",
		"    bar();",
		"    Foo();",
		"}",
	}

	tests := []struct {
		name     string
		snippet  string
		opts     MatchOptions
		wantLine int
		wantOK   bool
	}{
		{name: "substring single line", snippet: "main()", wantLine: 3, wantOK: true},
		{name: "earliest window wins", snippet: "oo();", wantLine: 4, wantOK: true},
		{name: "multi line contiguous", snippet: "foo();\nbar();", wantLine: 4, wantOK: true},
		{name: "multi line indented differently", snippet: "\t\tfoo();\n  bar();  ", wantLine: 4, wantOK: true},
		{name: "case sensitive by default", snippet: "Foo();", wantLine: 6, wantOK: true},
		{name: "ignore case finds earlier", snippet: "Foo();", opts: MatchOptions{IgnoreCase: true}, wantLine: 4, wantOK: true},
		{name: "exact rejects partial", snippet: "foo", opts: MatchOptions{ExactMatch: true}, wantOK: false},
		{name: "exact accepts trimmed line", snippet: "bar();", opts: MatchOptions{ExactMatch: true}, wantLine: 5, wantOK: true},
		{name: "exact ignore case", snippet: "FOO();", opts: MatchOptions{ExactMatch: true, IgnoreCase: true}, wantLine: 4, wantOK: true},
		{name: "lines not contiguous", snippet: "foo();\nFoo();", wantOK: false},
		{name: "empty snippet", snippet: "\n\n", wantOK: false},
		{name: "snippet longer than file", snippet: "a\nb\nc\nd\ne\nf\ng\nh", wantOK: false},
		{name: "last line of file", snippet: "}", wantLine: 7, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := CodeReference{FilePath: "main.go", TopLine: 1, SnippetText: tt.snippet}
			line, ok := Locate(file, ref, tt.opts)
			if ok != tt.wantOK {
				t.Fatalf("Locate() ok = %v, want %v (line %d)", ok, tt.wantOK, line)
			}
			if ok && line != tt.wantLine {
				t.Errorf("Locate() = %d, want %d", line, tt.wantLine)
			}
		})
	}
}

func TestLocate_UnmodifiedFileReturnsTopLine(t *testing.T) {
	file := numberedFile(30)
	for top := 1; top <= 28; top++ {
		ref := CodeReference{
			FilePath:    "f.go",
			TopLine:     top,
			SnippetText: file[top-1] + "\n" + file[top] + "\n" + file[top+1],
		}
		line, ok := Locate(file, ref, MatchOptions{ExactMatch: true})
		if !ok || line != top {
			t.Errorf("Locate(top=%d) = %d, %v; want %d, true", top, line, ok, top)
		}
	}
}

func TestLocate_DriftFromInsertions(t *testing.T) {
	file := numberedFile(20)
	file[9] = "foo();"
	file[10] = "bar();"
	ref := CodeReference{FilePath: "f.go", TopLine: 10, SnippetText: "foo();\nbar();"}

	if line, ok := Locate(file, ref, MatchOptions{}); !ok || line != 10 {
		t.Fatalf("before edit: Locate() = %d, %v; want 10, true", line, ok)
	}

	// insert 3 lines at line 2
	edited := slices.Concat(file[:1], []string{"// a", "// b", "// c"}, file[1:])
	if line, ok := Locate(edited, ref, MatchOptions{}); !ok || line != 13 {
		t.Errorf("after insert: Locate() = %d, %v; want 13, true", line, ok)
	}

	// edits after the block leave the line alone
	after := slices.Clone(file)
	after[15] = "changed"
	after = append(after, "appended")
	if line, ok := Locate(after, ref, MatchOptions{}); !ok || line != 10 {
		t.Errorf("after trailing edit: Locate() = %d, %v; want 10, true", line, ok)
	}

	// N deletions before the block shift it up by N
	deleted := slices.Concat(file[:2], file[6:])
	if line, ok := Locate(deleted, ref, MatchOptions{}); !ok || line != 6 {
		t.Errorf("after delete: Locate() = %d, %v; want 6, true", line, ok)
	}
}

func TestLocate_EditInsideBlock(t *testing.T) {
	file := numberedFile(20)
	file[9] = "foo();"
	file[10] = "baz();"
	ref := CodeReference{FilePath: "f.go", TopLine: 10, SnippetText: "foo();\nbar();"}

	if line, ok := Locate(file, ref, MatchOptions{}); ok {
		t.Errorf("Locate() = %d, true; want not found", line)
	}
}

func TestResolveLine_FallsBackToTopLine(t *testing.T) {
	file := numberedFile(5)
	ref := CodeReference{FilePath: "f.go", TopLine: 4, SnippetText: "missing"}

	line, resolved := ResolveLine(file, ref, MatchOptions{})
	if resolved || line != 4 {
		t.Errorf("ResolveLine() = %d, %v; want 4, false", line, resolved)
	}
}

func TestFirstNonWhitespaceColumn(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{line: "foo", want: 0},
		{line: "    foo", want: 4},
		{line: "\t\tfoo", want: 2},
		{line: "   ", want: 3},
		{line: "", want: 0},
		{line: "\u00a0\u00a0foo", want: 2},
		{line: "\u3000x := 1", want: 1},
		{line: "  // héllo", want: 2},
		{line: "\u3000\u3000", want: 2},
	}

	for _, tt := range tests {
		if got := FirstNonWhitespaceColumn(tt.line); got != tt.want {
			t.Errorf("FirstNonWhitespaceColumn(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}
