package commands

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
)

type caret struct {
	path   string
	line   int
	column int
}

type fakeNavigator struct {
	files    map[string][]string
	caret    caret
	revealed caret
	openErr  error
}

func newFakeNavigator() *fakeNavigator {
	return &fakeNavigator{files: map[string][]string{}}
}

func (n *fakeNavigator) add(path, content string) {
	n.files[path] = strings.Split(content, "\n")
}

func (n *fakeNavigator) OpenFile(_ context.Context, path string) (int, error) {
	if n.openErr != nil {
		return 0, n.openErr
	}
	lines, ok := n.files[path]
	if !ok {
		return 0, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return len(lines), nil
}

func (n *fakeNavigator) LineText(path string, line int) (string, error) {
	lines := n.files[path]
	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("line %d out of range", line)
	}
	return lines[line-1], nil
}

func (n *fakeNavigator) SetCaret(path string, line, column int) error {
	n.caret = caret{path, line, column}
	return nil
}

func (n *fakeNavigator) Reveal(_ context.Context, path string, line, column int) error {
	n.revealed = caret{path, line, column}
	return nil
}

type fakeLinkFiles struct {
	data     map[string][]byte
	readErr  error
	writeErr error
}

func newFakeLinkFiles() *fakeLinkFiles {
	return &fakeLinkFiles{data: map[string][]byte{}}
}

func (f *fakeLinkFiles) Read(_ context.Context, path string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	d, ok := f.data[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return d, nil
}

func (f *fakeLinkFiles) Write(_ context.Context, path string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeLinkFiles) Exists(_ context.Context, path string) (bool, error) {
	_, ok := f.data[path]
	return ok, nil
}

type memorySettings struct {
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: map[string]string{}}
}

func (m *memorySettings) Get(_ context.Context, collection, property string) (string, bool, error) {
	v, ok := m.values[collection+"/"+property]
	return v, ok, nil
}

func (m *memorySettings) Set(_ context.Context, collection, property, value string) error {
	m.values[collection+"/"+property] = value
	return nil
}

func (m *memorySettings) Close() error { return nil }

// numbered returns n lines "line 1" .. "line n"
func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i+1)
	}
	return out
}
