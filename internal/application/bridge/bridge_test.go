package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
	"codemindmap/internal/protocol"
)

func TestNodeSelected_TogglesGoToCode(t *testing.T) {
	tests := []struct {
		description string
		msg         protocol.NodeSelected
		expected    protocol.SurfaceMessage
	}{
		{
			description: "linked node",
			msg:         protocol.NodeSelected{NodeID: "n1", NodeTopic: "foo();", NodeData: &domain.NodeData{FilePath: "a.go", TopLine: 3}},
			expected:    protocol.EnableGoToCode{},
		},
		{
			description: "plain node",
			msg:         protocol.NodeSelected{NodeID: "n2", NodeTopic: "idea"},
			expected:    protocol.DisableGoToCode{},
		},
		{
			description: "node data without line",
			msg:         protocol.NodeSelected{NodeID: "n3", NodeTopic: "x", NodeData: &domain.NodeData{FilePath: "a.go"}},
			expected:    protocol.DisableGoToCode{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			h := newHarness(Options{})
			require.NoError(t, h.bridge.HandleMessage(context.Background(), tc.msg))
			assert.Equal(t, tc.expected, h.surface.last())

			node, ok := h.bridge.SelectedNode()
			require.True(t, ok)
			assert.Equal(t, tc.msg.NodeID, node.NodeID)
		})
	}
}

func TestSelectionChanged_TogglesAddCodeButton(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()

	require.NoError(t, h.bridge.SelectionChanged(ctx, &ports.Selection{FilePath: "/w/a.go", Text: "x", TopLine: 1}))
	assert.Equal(t, protocol.EnableAddCodeButton{}, h.surface.last())
	assert.True(t, h.bridge.HasSelection())

	require.NoError(t, h.bridge.SelectionChanged(ctx, &ports.Selection{FilePath: "/w/a.go", TopLine: 1, CaretLineText: "x"}))
	assert.Equal(t, protocol.DisableAddCodeButton{}, h.surface.last())

	require.NoError(t, h.bridge.SelectionChanged(ctx, nil))
	assert.Equal(t, protocol.DisableAddCodeButton{}, h.surface.last())
	assert.False(t, h.bridge.HasSelection())
}

func TestAddCodeToNode(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()
	h.bridge.SetProject("/w", "")

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.AddCodeToNode{}))
	assert.Empty(t, h.surface.sent(), "nothing to link without a selection")
	assert.Len(t, h.notifier.infos, 1)

	require.NoError(t, h.bridge.SelectionChanged(ctx, &ports.Selection{FilePath: "/w/pkg/a.go", Text: "foo();", TopLine: 8}))
	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.AddCodeToNode{}))
	assert.Equal(t, protocol.AddChildNode{
		Code:     "foo();",
		NodeData: domain.NodeData{FileName: "a.go", FilePath: "pkg/a.go", TopLine: 8},
	}, h.surface.last())
}

func TestNodeNavigate(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()
	h.bridge.SetProject("/w", "")
	h.nav.files["/w/a.go"] = []string{"package a", "", "// added", "  foo();"}

	msg := protocol.NodeNavigate{NodeTopic: "foo();", NodeData: &domain.NodeData{FilePath: "a.go", TopLine: 2}}
	require.NoError(t, h.bridge.HandleMessage(ctx, msg))
	assert.Equal(t, position{"/w/a.go", 4, 2}, h.nav.caret)
	assert.Empty(t, h.notifier.infos)

	// snippet gone: recorded line is used and the user is told
	h.nav.files["/w/a.go"] = []string{"package a", "", "", ""}
	require.NoError(t, h.bridge.HandleMessage(ctx, msg))
	assert.Equal(t, position{"/w/a.go", 2, 0}, h.nav.caret)
	assert.Len(t, h.notifier.infos, 1)

	// missing file is reported, not fatal
	missing := protocol.NodeNavigate{NodeTopic: "x", NodeData: &domain.NodeData{FilePath: "gone.go", TopLine: 1}}
	err := h.bridge.HandleMessage(ctx, missing)
	assert.True(t, errors.Is(err, application.ErrNotFound))
	assert.Equal(t, 1, h.notifier.errorCount())

	// unlinked node does nothing
	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.NodeNavigate{NodeTopic: "idea"}))
}

func TestGoToCode_UsesSelectedNode(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()
	h.bridge.SetProject("/w", "")
	h.nav.files["/w/b.go"] = []string{"a", "\tbar()"}

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.GoToCode{}))
	assert.Equal(t, position{}, h.nav.caret, "no node selected yet")

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.NodeSelected{NodeID: "n", NodeTopic: "bar()", NodeData: &domain.NodeData{FilePath: "b.go", TopLine: 1}}))
	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.GoToCode{}))
	assert.Equal(t, position{"/w/b.go", 2, 1}, h.nav.caret)
}

func TestSave_WritesExportToTarget(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()
	var recorded string
	h.bridge.OnLinkStorePath(func(_ context.Context, path string) { recorded = path })

	f := h.bridge.RequestSave(ctx, "/s/a.txt")
	assert.Equal(t, []string{f.ID()}, h.surface.exports())

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: f.ID(), Data: tree("A")}))
	require.NoError(t, f.Wait(ctx))

	data, ok := h.files.get("/s/a.txt")
	require.True(t, ok)
	assert.Equal(t, tree("A"), data)
	assert.Equal(t, "/s/a.txt", h.bridge.LinkStorePath())
	assert.Equal(t, "/s/a.txt", recorded)
	assert.Len(t, h.notifier.infos, 1)
}

func TestSave_LastWins(t *testing.T) {
	t.Run("correlated responses", func(t *testing.T) {
		h := newHarness(Options{})
		ctx := context.Background()

		first := h.bridge.RequestSave(ctx, "/s/a.txt")
		second := h.bridge.RequestSave(ctx, "/s/b.txt")

		assert.ErrorIs(t, first.Wait(ctx), application.ErrSuperseded)

		err := h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: first.ID(), Data: tree("A")})
		assert.ErrorIs(t, err, application.ErrStaleResponse)
		_, wrote := h.files.get("/s/a.txt")
		assert.False(t, wrote, "superseded target never receives data")
		assert.Zero(t, h.notifier.errorCount(), "stale responses are only logged")

		require.NoError(t, h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: second.ID(), Data: tree("B")}))
		require.NoError(t, second.Wait(ctx))
		data, _ := h.files.get("/s/b.txt")
		assert.Equal(t, tree("B"), data)
	})

	t.Run("responses without ids", func(t *testing.T) {
		h := newHarness(Options{})
		ctx := context.Background()

		h.bridge.RequestSave(ctx, "/s/a.txt")
		second := h.bridge.RequestSave(ctx, "/s/b.txt")

		require.NoError(t, h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{Data: tree("X")}))
		require.NoError(t, second.Wait(ctx))

		_, wroteA := h.files.get("/s/a.txt")
		dataB, wroteB := h.files.get("/s/b.txt")
		assert.False(t, wroteA)
		assert.True(t, wroteB)
		assert.Equal(t, tree("X"), dataB)

		// slot is clear now; a second reply has nowhere to go
		err := h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{Data: tree("Y")})
		assert.ErrorIs(t, err, application.ErrStaleResponse)
	})
}

func TestSave_Timeout(t *testing.T) {
	h := newHarness(Options{AwaitTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	f := h.bridge.RequestSave(ctx, "/s/a.txt")
	assert.ErrorIs(t, f.Wait(ctx), application.ErrTimeout)
	assert.Eventually(t, func() bool { return h.notifier.errorCount() == 1 }, time.Second, 5*time.Millisecond)

	err := h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: f.ID(), Data: tree("late")})
	assert.ErrorIs(t, err, application.ErrStaleResponse)
	_, wrote := h.files.get("/s/a.txt")
	assert.False(t, wrote)
}

func TestSave_Failures(t *testing.T) {
	t.Run("write failure keeps previous path", func(t *testing.T) {
		h := newHarness(Options{})
		ctx := context.Background()
		h.bridge.SetProject("", "/s/current.txt")
		h.files.writeErr = errors.New("read-only file system")

		f := h.bridge.RequestSave(ctx, "/s/new.txt")
		err := h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: f.ID(), Data: tree("A")})
		assert.ErrorIs(t, err, application.ErrIO)
		assert.ErrorIs(t, f.Wait(ctx), application.ErrIO)
		assert.Equal(t, 1, h.notifier.errorCount())
		assert.Equal(t, "/s/current.txt", h.bridge.LinkStorePath())
	})

	t.Run("malformed export", func(t *testing.T) {
		h := newHarness(Options{})
		ctx := context.Background()

		f := h.bridge.RequestSave(ctx, "/s/a.txt")
		err := h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: f.ID(), Data: "{"})
		assert.ErrorIs(t, err, application.ErrParse)
		_, wrote := h.files.get("/s/a.txt")
		assert.False(t, wrote)
	})

	t.Run("no surface", func(t *testing.T) {
		h := newHarness(Options{})
		h.bridge.Detach()

		f := h.bridge.RequestSave(context.Background(), "/s/a.txt")
		assert.ErrorIs(t, f.Wait(context.Background()), application.ErrNoSurface)
	})

	t.Run("detach resolves pending save", func(t *testing.T) {
		h := newHarness(Options{})
		f := h.bridge.RequestSave(context.Background(), "/s/a.txt")
		h.bridge.Detach()
		assert.ErrorIs(t, f.Wait(context.Background()), application.ErrNoSurface)
	})

	t.Run("post failure", func(t *testing.T) {
		h := newHarness(Options{})
		h.surface.err = errors.New("broken pipe")

		f := h.bridge.RequestSave(context.Background(), "/s/a.txt")
		err := f.Wait(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken pipe")
	})
}

func TestSaveMindMap_Dialog(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()
	h.dialogs.savePath = "/s/chosen.txt"

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.SaveMindMap{}))
	ids := h.surface.exports()
	require.Len(t, ids, 1)

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: ids[0], Data: tree("T")}))
	data, _ := h.files.get("/s/chosen.txt")
	assert.Equal(t, tree("T"), data)

	h.dialogs.cancel = true
	err := h.bridge.HandleMessage(ctx, protocol.SaveMindMap{})
	assert.ErrorIs(t, err, application.ErrCancelled)
	assert.Len(t, h.surface.exports(), 1)
	assert.Zero(t, h.notifier.errorCount())
}

func TestAutosave(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.MindMapOperation{OperationName: "addChild"}))
	assert.Empty(t, h.surface.exports(), "no link store yet")

	h.bridge.SetProject("/w", "/s/auto.txt")
	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.MindMapOperation{OperationName: "moveNode"}))
	ids := h.surface.exports()
	require.Len(t, ids, 1)

	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.ExportedMindMapData{RequestID: ids[0], Data: tree("auto")}))
	data, _ := h.files.get("/s/auto.txt")
	assert.Equal(t, tree("auto"), data)
	assert.Empty(t, h.notifier.infos, "autosave is quiet")
}

func TestToggleColorScheme(t *testing.T) {
	h := newHarness(Options{})
	h.bridge.SetProject("/w", "/s/auto.txt")

	require.NoError(t, h.bridge.HandleMessage(context.Background(), protocol.ToggleColorScheme{}))
	sent := h.surface.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, protocol.ToggleColorScheme{}, sent[0])
	assert.IsType(t, protocol.ExportMindMapData{}, sent[1])
}

func TestLoad(t *testing.T) {
	t.Run("valid store", func(t *testing.T) {
		h := newHarness(Options{})
		h.files.data["/s/a.txt"] = []byte(tree("A"))

		require.NoError(t, h.bridge.Load(context.Background(), "/s/a.txt"))
		assert.Equal(t, protocol.ImportMindMapData{Data: tree("A")}, h.surface.last())
		assert.Equal(t, "/s/a.txt", h.bridge.LinkStorePath())
	})

	t.Run("corrupt store resets to defaults", func(t *testing.T) {
		h := newHarness(Options{})
		h.files.data["/s/a.txt"] = []byte(`{"nodeData":{"id":"me-`)

		err := h.bridge.Load(context.Background(), "/s/a.txt")
		assert.ErrorIs(t, err, application.ErrParse)
		assert.Equal(t, protocol.ResetMindMap{}, h.surface.last())
		assert.Empty(t, h.bridge.LinkStorePath())
	})

	t.Run("dialog flow", func(t *testing.T) {
		h := newHarness(Options{})
		h.dialogs.openPath = "/s/b.txt"
		h.files.data["/s/b.txt"] = []byte(tree("B"))

		require.NoError(t, h.bridge.HandleMessage(context.Background(), protocol.LoadMindMap{}))
		assert.Equal(t, protocol.ImportMindMapData{Data: tree("B")}, h.surface.last())
		assert.Len(t, h.notifier.infos, 1)
	})

	t.Run("missing file is reported", func(t *testing.T) {
		h := newHarness(Options{})
		h.dialogs.openPath = "/s/none.txt"

		err := h.bridge.HandleMessage(context.Background(), protocol.LoadMindMap{})
		assert.ErrorIs(t, err, application.ErrNotFound)
		assert.Equal(t, 1, h.notifier.errorCount())
		assert.Empty(t, h.surface.sent())
	})
}

func TestNewMindMap(t *testing.T) {
	h := newHarness(Options{})
	ctx := context.Background()

	err := h.bridge.HandleMessage(ctx, protocol.NewMindMap{})
	assert.ErrorIs(t, err, application.ErrCancelled)
	assert.Empty(t, h.surface.sent())

	h.dialogs.confirm = true
	require.NoError(t, h.bridge.HandleMessage(ctx, protocol.NewMindMap{}))
	assert.Equal(t, protocol.ResetMindMap{}, h.surface.last())
	assert.Len(t, h.dialogs.questions, 2)
}

func TestCopyNodeText(t *testing.T) {
	h := newHarness(Options{})
	require.NoError(t, h.bridge.HandleMessage(context.Background(), protocol.CopyNodeText{Text: "foo();"}))
	assert.Equal(t, "foo();", h.clipboard.text)
}

func TestMissingSurface_DropsActions(t *testing.T) {
	h := newHarness(Options{})
	h.bridge.Detach()
	ctx := context.Background()

	err := h.bridge.HandleMessage(ctx, protocol.NodeSelected{NodeID: "n"})
	assert.ErrorIs(t, err, application.ErrNoSurface)

	_, err = h.bridge.LinkSelection(ctx, ports.Selection{FilePath: "/w/a.go", Text: "x", TopLine: 1})
	assert.ErrorIs(t, err, application.ErrNoSurface)

	err = h.bridge.HandleMessage(ctx, protocol.SaveMindMap{})
	assert.ErrorIs(t, err, application.ErrNoSurface)

	assert.Zero(t, h.notifier.errorCount(), "dropped actions are not reported to the user")
}
