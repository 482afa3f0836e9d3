package bridge

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"codemindmap/internal/protocol"
)

type fakeSurface struct {
	mu     sync.Mutex
	posts  []protocol.SurfaceMessage
	err    error
	onPost func(protocol.SurfaceMessage)
}

func (s *fakeSurface) Post(_ context.Context, msg protocol.SurfaceMessage) error {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	s.posts = append(s.posts, msg)
	hook := s.onPost
	s.mu.Unlock()
	if hook != nil {
		hook(msg)
	}
	return nil
}

func (s *fakeSurface) sent() []protocol.SurfaceMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.SurfaceMessage(nil), s.posts...)
}

func (s *fakeSurface) last() protocol.SurfaceMessage {
	posts := s.sent()
	if len(posts) == 0 {
		return nil
	}
	return posts[len(posts)-1]
}

// exports returns the ids of every export request posted
func (s *fakeSurface) exports() []string {
	var ids []string
	for _, m := range s.sent() {
		if e, ok := m.(protocol.ExportMindMapData); ok {
			ids = append(ids, e.RequestID)
		}
	}
	return ids
}

type fakeNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (n *fakeNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *fakeNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

type fakeDialogs struct {
	savePath  string
	openPath  string
	cancel    bool
	confirm   bool
	questions []string
}

func (d *fakeDialogs) ChooseSaveFile(_ context.Context, _, _ string) (string, bool, error) {
	return d.savePath, !d.cancel, nil
}

func (d *fakeDialogs) ChooseOpenFile(_ context.Context, _, _ string) (string, bool, error) {
	return d.openPath, !d.cancel, nil
}

func (d *fakeDialogs) Confirm(_ context.Context, question string) (bool, error) {
	d.questions = append(d.questions, question)
	return d.confirm, nil
}

type fakeFiles struct {
	mu       sync.Mutex
	data     map[string][]byte
	writeErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{data: map[string][]byte{}}
}

func (f *fakeFiles) Read(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.data[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return d, nil
}

func (f *fakeFiles) Write(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeFiles) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[path]
	return ok, nil
}

func (f *fakeFiles) get(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.data[path]
	return string(d), ok
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type position struct {
	path   string
	line   int
	column int
}

type fakeNavigator struct {
	files map[string][]string
	caret position
}

func (n *fakeNavigator) OpenFile(_ context.Context, path string) (int, error) {
	lines, ok := n.files[path]
	if !ok {
		return 0, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return len(lines), nil
}

func (n *fakeNavigator) LineText(path string, line int) (string, error) {
	return n.files[path][line-1], nil
}

func (n *fakeNavigator) SetCaret(path string, line, column int) error {
	n.caret = position{path, line, column}
	return nil
}

func (n *fakeNavigator) Reveal(context.Context, string, int, int) error {
	return nil
}

type memorySettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: map[string]string{}}
}

func (m *memorySettings) Get(_ context.Context, collection, property string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[collection+"/"+property]
	return v, ok, nil
}

func (m *memorySettings) Set(_ context.Context, collection, property, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[collection+"/"+property] = value
	return nil
}

func (m *memorySettings) Close() error { return nil }

type harness struct {
	bridge    *HostBridge
	surface   *fakeSurface
	notifier  *fakeNotifier
	dialogs   *fakeDialogs
	files     *fakeFiles
	clipboard *fakeClipboard
	nav       *fakeNavigator
}

func newHarness(opts Options) *harness {
	h := &harness{
		surface:   &fakeSurface{},
		notifier:  &fakeNotifier{},
		dialogs:   &fakeDialogs{},
		files:     newFakeFiles(),
		clipboard: &fakeClipboard{},
		nav:       &fakeNavigator{files: map[string][]string{}},
	}
	h.bridge = New(Deps{
		Navigator: h.nav,
		Notifier:  h.notifier,
		Dialogs:   h.dialogs,
		Files:     h.files,
		Clipboard: h.clipboard,
	}, opts)
	n := 0
	h.bridge.newID = func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
	h.bridge.Attach(h.surface)
	return h
}

func tree(topic string) string {
	return `{"nodeData":{"id":"me-root","topic":"` + strings.ReplaceAll(topic, `"`, `'`) + `","children":[]}}`
}
