// Package bridge connects the mind-map surface to the host: it interprets
// surface messages, drives navigation and link store persistence, and
// correlates export requests with their responses.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"codemindmap/internal/application"
	"codemindmap/internal/application/commands"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
	"codemindmap/internal/protocol"
)

// DefaultAwaitTimeout bounds how long a save waits for the surface's export
const DefaultAwaitTimeout = 30 * time.Second

// Options tune the bridge
type Options struct {
	// AwaitTimeout bounds a pending export; zero waits forever
	AwaitTimeout time.Duration
	Match        domain.MatchOptions
}

// Deps are the host collaborators the bridge drives
type Deps struct {
	Navigator ports.Navigator
	Notifier  ports.Notifier
	Dialogs   ports.Dialogs
	Files     ports.LinkFiles
	Clipboard ports.Clipboard
	Logger    *slog.Logger
}

type saveRequest struct {
	future   *Future
	path     string
	announce bool
	timer    *time.Timer
}

func (r *saveRequest) stop() {
	if r.timer != nil {
		r.timer.Stop()
	}
}

// HostBridge is the state machine behind one mind-map panel
type HostBridge struct {
	nav       ports.Navigator
	notifier  ports.Notifier
	dialogs   ports.Dialogs
	files     ports.LinkFiles
	clipboard ports.Clipboard
	logger    *slog.Logger
	opts      Options
	newID     func() string

	mu            sync.Mutex
	surface       ports.Surface
	projectRoot   string
	linkStorePath string
	selection     *ports.Selection
	selectedNode  *protocol.NodeSelected
	pending       *saveRequest
	onStorePath   func(ctx context.Context, path string)
}

// New creates a bridge with no surface attached
func New(deps Deps, opts Options) *HostBridge {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HostBridge{
		nav:       deps.Navigator,
		notifier:  deps.Notifier,
		dialogs:   deps.Dialogs,
		files:     deps.Files,
		clipboard: deps.Clipboard,
		logger:    logger,
		opts:      opts,
		newID:     uuid.NewString,
	}
}

// Attach connects the surface messages are posted to
func (b *HostBridge) Attach(s ports.Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surface = s
}

// Detach disconnects the surface. A pending save can no longer complete
// and resolves with ErrNoSurface.
func (b *HostBridge) Detach() {
	b.mu.Lock()
	req := b.pending
	b.pending = nil
	b.surface = nil
	b.mu.Unlock()

	if req != nil {
		req.stop()
		req.future.resolve(application.ErrNoSurface)
	}
}

// Attached reports whether a surface is connected
func (b *HostBridge) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface != nil
}

// SetProject sets the root link paths are relative to and the link store
// autosave writes to. An empty linkStorePath disables autosave.
func (b *HostBridge) SetProject(projectRoot, linkStorePath string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projectRoot = projectRoot
	b.linkStorePath = linkStorePath
}

// LinkStorePath returns the link store the surface's tree was last loaded
// from or saved to
func (b *HostBridge) LinkStorePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.linkStorePath
}

// OnLinkStorePath registers fn to be called after a load or save records a
// new link store path
func (b *HostBridge) OnLinkStorePath(fn func(ctx context.Context, path string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStorePath = fn
}

// SelectedNode returns the node last selected in the graph
func (b *HostBridge) SelectedNode() (protocol.NodeSelected, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selectedNode == nil {
		return protocol.NodeSelected{}, false
	}
	return *b.selectedNode, true
}

// HasSelection reports whether the host editor has an active text selection
func (b *HostBridge) HasSelection() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection != nil && !b.selection.IsEmpty()
}

func (b *HostBridge) current() (ports.Surface, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface, b.projectRoot
}

func (b *HostBridge) post(ctx context.Context, msg protocol.SurfaceMessage) error {
	surface, _ := b.current()
	if surface == nil {
		return application.ErrNoSurface
	}
	b.logger.Debug("post", "action", msg.Action())
	if err := surface.Post(ctx, msg); err != nil {
		return fmt.Errorf("post %s: %w", msg.Action(), err)
	}
	return nil
}

// SelectionChanged records the host editor's selection (nil when no editor
// is active) and toggles the surface's add-code button.
func (b *HostBridge) SelectionChanged(ctx context.Context, sel *ports.Selection) error {
	b.mu.Lock()
	if sel != nil {
		copied := *sel
		sel = &copied
	}
	b.selection = sel
	b.mu.Unlock()

	if b.HasSelection() {
		return b.post(ctx, protocol.EnableAddCodeButton{})
	}
	return b.post(ctx, protocol.DisableAddCodeButton{})
}

// HandleMessage interprets one message from the surface. Failures are
// reported to the user here and also returned.
func (b *HostBridge) HandleMessage(ctx context.Context, msg protocol.HostMessage) error {
	b.logger.Debug("received", "action", msg.Action())
	err := b.dispatch(ctx, msg)
	b.report(msg.Action(), err)
	return err
}

func (b *HostBridge) dispatch(ctx context.Context, msg protocol.HostMessage) error {
	switch m := msg.(type) {
	case protocol.NodeSelected:
		return b.nodeSelected(ctx, m)
	case protocol.NodeNavigate:
		ref, ok := m.Reference()
		if !ok {
			return nil
		}
		return b.Navigate(ctx, ref)
	case protocol.GoToCode:
		return b.goToSelectedNode(ctx)
	case protocol.AddCodeToNode:
		return b.addSelectedCode(ctx)
	case protocol.ExportedMindMapData:
		return b.exported(ctx, m)
	case protocol.MindMapOperation:
		b.autosave(ctx, m.OperationName)
		return nil
	case protocol.SaveMindMap:
		return b.chooseAndSave(ctx)
	case protocol.LoadMindMap:
		return b.chooseAndLoad(ctx)
	case protocol.NewMindMap:
		return b.confirmAndReset(ctx)
	case protocol.ToggleColorScheme:
		if err := b.post(ctx, protocol.ToggleColorScheme{}); err != nil {
			return err
		}
		b.autosave(ctx, m.Action())
		return nil
	case protocol.CopyNodeText:
		return b.copyText(m.Text)
	default:
		return fmt.Errorf("unhandled action %q", msg.Action())
	}
}

func (b *HostBridge) report(action string, err error) {
	switch {
	case err == nil, errors.Is(err, application.ErrCancelled):
	case errors.Is(err, application.ErrNoSurface):
		b.logger.Debug("action dropped", "action", action, "error", err)
	case errors.Is(err, application.ErrStaleResponse):
		b.logger.Warn("response ignored", "action", action, "error", err)
	default:
		b.logger.Warn("action failed", "action", action, "error", err)
		b.notifier.Error(err.Error())
	}
}

func (b *HostBridge) nodeSelected(ctx context.Context, m protocol.NodeSelected) error {
	b.mu.Lock()
	b.selectedNode = &m
	b.mu.Unlock()

	if _, linked := (protocol.NodeNavigate{NodeTopic: m.NodeTopic, NodeData: m.NodeData}).Reference(); linked {
		return b.post(ctx, protocol.EnableGoToCode{})
	}
	return b.post(ctx, protocol.DisableGoToCode{})
}

// Navigate moves the editor to the reference's current location, falling
// back to its recorded line when the snippet cannot be found.
func (b *HostBridge) Navigate(ctx context.Context, ref domain.CodeReference) error {
	_, root := b.current()
	result, err := commands.NewNavigateCommand(b.nav, ref, root, b.opts.Match).Execute(ctx)
	if err != nil {
		return err
	}
	if !result.Resolved {
		b.logger.Warn("snippet not found, using recorded line", "file", result.Path, "line", result.Line, "error", application.ErrNoMatch)
		b.notifier.Info(result.Message)
	}
	return nil
}

func (b *HostBridge) goToSelectedNode(ctx context.Context) error {
	node, ok := b.SelectedNode()
	if !ok {
		return nil
	}
	ref, linked := (protocol.NodeNavigate{NodeTopic: node.NodeTopic, NodeData: node.NodeData}).Reference()
	if !linked {
		b.notifier.Info("The selected node is not linked to code")
		return nil
	}
	return b.Navigate(ctx, ref)
}

func (b *HostBridge) addSelectedCode(ctx context.Context) error {
	b.mu.Lock()
	var sel *ports.Selection
	if b.selection != nil {
		copied := *b.selection
		sel = &copied
	}
	b.mu.Unlock()

	if sel == nil {
		b.notifier.Info("Select some code in the editor first")
		return nil
	}
	_, err := b.LinkSelection(ctx, *sel)
	return err
}

// LinkSelection adds sel as a linked child of the surface's selected node
func (b *HostBridge) LinkSelection(ctx context.Context, sel ports.Selection) (string, error) {
	if !b.Attached() {
		return "", application.ErrNoSurface
	}
	_, root := b.current()
	result, err := commands.NewLinkSelectionCommand(sel, root).Execute(ctx)
	if err != nil {
		return "", err
	}
	if err := b.post(ctx, result.Node); err != nil {
		return "", err
	}
	return result.Message, nil
}

// RequestSave asks the surface for its tree and writes it to path once the
// export arrives. A save still pending is superseded.
func (b *HostBridge) RequestSave(ctx context.Context, path string) *Future {
	return b.requestSave(ctx, path, true)
}

func (b *HostBridge) requestSave(ctx context.Context, path string, announce bool) *Future {
	req := &saveRequest{future: newFuture(b.newID()), path: path, announce: announce}

	b.mu.Lock()
	surface := b.surface
	if surface == nil {
		b.mu.Unlock()
		req.future.resolve(application.ErrNoSurface)
		return req.future
	}
	prev := b.pending
	b.pending = req
	if b.opts.AwaitTimeout > 0 {
		req.timer = time.AfterFunc(b.opts.AwaitTimeout, func() { b.expire(req) })
	}
	b.mu.Unlock()

	if prev != nil {
		prev.stop()
		prev.future.resolve(application.ErrSuperseded)
		b.logger.Debug("save superseded", "request", prev.future.id, "path", prev.path)
	}

	b.logger.Debug("post", "action", protocol.ActionExportMindMapData, "request", req.future.id)
	if err := surface.Post(ctx, protocol.ExportMindMapData{RequestID: req.future.id}); err != nil {
		b.clearPending(req)
		req.future.resolve(fmt.Errorf("post %s: %w", protocol.ActionExportMindMapData, err))
	}
	return req.future
}

func (b *HostBridge) clearPending(req *saveRequest) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != req {
		return false
	}
	b.pending = nil
	req.stop()
	return true
}

func (b *HostBridge) expire(req *saveRequest) {
	if !b.clearPending(req) {
		return
	}
	req.future.resolve(application.ErrTimeout)
	b.logger.Warn("save timed out", "request", req.future.id, "path", req.path, "timeout", b.opts.AwaitTimeout)
	b.notifier.Error(fmt.Sprintf("Mind map was not saved to %s: %v", req.path, application.ErrTimeout))
}

// exported completes the pending save. A response without a request id
// comes from a surface that does not echo ids and completes whatever save
// is pending.
func (b *HostBridge) exported(ctx context.Context, m protocol.ExportedMindMapData) error {
	b.mu.Lock()
	req := b.pending
	if req == nil || (m.RequestID != "" && m.RequestID != req.future.id) {
		b.mu.Unlock()
		return fmt.Errorf("export %q: %w", m.RequestID, application.ErrStaleResponse)
	}
	b.pending = nil
	req.stop()
	b.mu.Unlock()

	result, err := commands.NewSaveLinkStoreCommand(b.files, req.path, m.Data).Execute(ctx)
	if err != nil {
		req.future.resolve(err)
		return err
	}

	b.recordStorePath(ctx, req.path)
	if req.announce {
		b.notifier.Info(result.Message)
	}
	req.future.resolve(nil)
	return nil
}

func (b *HostBridge) autosave(ctx context.Context, reason string) {
	path := b.LinkStorePath()
	if path == "" {
		b.logger.Debug("autosave skipped, no link store", "reason", reason)
		return
	}
	b.requestSave(ctx, path, false)
}

func (b *HostBridge) recordStorePath(ctx context.Context, path string) {
	b.mu.Lock()
	b.linkStorePath = path
	fn := b.onStorePath
	b.mu.Unlock()

	if fn != nil {
		fn(ctx, path)
	}
}

// Load reads a link store and replaces the surface's tree with it. A store
// that does not parse resets the surface to the default tree and its path
// is not recorded.
func (b *HostBridge) Load(ctx context.Context, path string) error {
	if !b.Attached() {
		return application.ErrNoSurface
	}

	result, err := commands.NewLoadLinkStoreCommand(b.files, path).Execute(ctx)
	if err != nil {
		if errors.Is(err, application.ErrParse) {
			if resetErr := b.post(ctx, protocol.ResetMindMap{}); resetErr != nil {
				return resetErr
			}
		}
		return err
	}

	if err := b.post(ctx, protocol.ImportMindMapData{Data: result.Data}); err != nil {
		return err
	}
	b.recordStorePath(ctx, path)
	return nil
}

// Reset restores the surface's default tree
func (b *HostBridge) Reset(ctx context.Context) error {
	return b.post(ctx, protocol.ResetMindMap{})
}

// ShowDefault imports the built-in starter tree into the surface
func (b *HostBridge) ShowDefault(ctx context.Context) error {
	data, err := domain.DefaultMindMap().Marshal()
	if err != nil {
		return fmt.Errorf("encode default mind map: %w", err)
	}
	return b.post(ctx, protocol.ImportMindMapData{Data: string(data)})
}

func (b *HostBridge) defaultStorePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.linkStorePath != "" {
		return b.linkStorePath
	}
	if b.projectRoot != "" {
		return filepath.Join(b.projectRoot, domain.DefaultLinkStoreFileName)
	}
	return domain.DefaultLinkStoreFileName
}

func (b *HostBridge) chooseAndSave(ctx context.Context) error {
	if !b.Attached() {
		return application.ErrNoSurface
	}
	path, ok, err := b.dialogs.ChooseSaveFile(ctx, "Save Code Mind Map", b.defaultStorePath())
	if err != nil {
		return fmt.Errorf("save dialog: %w", err)
	}
	if !ok {
		return application.ErrCancelled
	}
	b.RequestSave(ctx, path)
	return nil
}

func (b *HostBridge) chooseAndLoad(ctx context.Context) error {
	if !b.Attached() {
		return application.ErrNoSurface
	}
	path, ok, err := b.dialogs.ChooseOpenFile(ctx, "Load Code Mind Map", b.defaultStorePath())
	if err != nil {
		return fmt.Errorf("open dialog: %w", err)
	}
	if !ok {
		return application.ErrCancelled
	}
	if err := b.Load(ctx, path); err != nil {
		return err
	}
	b.notifier.Info(fmt.Sprintf("Loaded mind map from %s", path))
	return nil
}

func (b *HostBridge) confirmAndReset(ctx context.Context) error {
	if !b.Attached() {
		return application.ErrNoSurface
	}
	yes, err := b.dialogs.Confirm(ctx, "Start a new mind map? Unsaved changes will be lost.")
	if err != nil {
		return fmt.Errorf("confirm dialog: %w", err)
	}
	if !yes {
		return application.ErrCancelled
	}
	return b.Reset(ctx)
}

func (b *HostBridge) copyText(text string) error {
	if err := b.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	b.notifier.Info("Copied node text to clipboard")
	return nil
}
