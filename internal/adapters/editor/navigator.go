// Package editor implements ports.Navigator for editors driven from the
// command line.
package editor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"codemindmap/internal/ports"
)

// Launcher shows a file position in an editor
type Launcher interface {
	Launch(ctx context.Context, path string, line, column int) error
}

type caret struct {
	line   int
	column int
}

// Navigator reads the file itself for line lookups and hands the final
// position to a Launcher.
type Navigator struct {
	launcher Launcher

	mu     sync.Mutex
	lines  map[string][]string
	carets map[string]caret
}

// Ensure Navigator implements ports.Navigator
var _ ports.Navigator = (*Navigator)(nil)

// NewNavigator creates a navigator that reveals positions with launcher
func NewNavigator(launcher Launcher) *Navigator {
	return &Navigator{
		launcher: launcher,
		lines:    map[string][]string{},
		carets:   map[string]caret{},
	}
}

// OpenFile loads path and returns its line count
func (n *Navigator) OpenFile(_ context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	lines := splitLines(data)
	n.mu.Lock()
	n.lines[path] = lines
	n.mu.Unlock()
	return len(lines), nil
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// LineText returns a 1-based line of an opened file
func (n *Navigator) LineText(path string, line int) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	lines, ok := n.lines[path]
	if !ok {
		return "", fmt.Errorf("%s is not open", path)
	}
	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("line %d out of range 1-%d in %s", line, len(lines), path)
	}
	return lines[line-1], nil
}

// SetCaret records the caret for the next Reveal of path
func (n *Navigator) SetCaret(path string, line, column int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.carets[path] = caret{line: line, column: column}
	return nil
}

// Caret returns the caret last set for path
func (n *Navigator) Caret(path string) (line, column int, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.carets[path]
	return c.line, c.column, ok
}

// Reveal launches the editor at line. Columns are 1-based on editor
// command lines.
func (n *Navigator) Reveal(ctx context.Context, path string, line, column int) error {
	if err := n.launcher.Launch(ctx, path, line, column+1); err != nil {
		return fmt.Errorf("failed to launch editor: %w", err)
	}
	return nil
}
