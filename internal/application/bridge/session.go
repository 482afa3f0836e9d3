package bridge

import (
	"context"
	"errors"
	"sync"

	"codemindmap/internal/application"
	"codemindmap/internal/application/commands"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// Session is the one open panel: the bridge to its surface plus the project
// whose link store it shows. It is created by the process and handed to
// everything that acts on the panel.
type Session struct {
	bridge   *HostBridge
	registry *application.ProjectRegistry
	files    ports.LinkFiles

	mu     sync.Mutex
	record domain.ProjectRecord
}

// NewSession creates a session with no project open
func NewSession(b *HostBridge, registry *application.ProjectRegistry, files ports.LinkFiles) *Session {
	s := &Session{
		bridge:   b,
		registry: registry,
		files:    files,
	}
	b.OnLinkStorePath(s.linkStorePathChanged)
	return s
}

// Bridge returns the session's bridge
func (s *Session) Bridge() *HostBridge {
	return s.bridge
}

// Record returns the open project's record, empty when none is open
func (s *Session) Record() domain.ProjectRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// OpenProject registers the project if needed and shows its link store, or
// the default tree when the store does not exist yet.
func (s *Session) OpenProject(ctx context.Context, projectFilePath string) error {
	result, err := commands.NewOpenProjectCommand(s.registry, s.files, projectFilePath).Execute(ctx)
	if err != nil {
		s.bridge.report("openProject", err)
		return err
	}

	s.mu.Lock()
	s.record = result.Record
	s.mu.Unlock()
	s.bridge.logger.Info(result.Message, "project_file", result.Record.ProjectFilePath, "link_store", result.Record.LinkStoreFilePath)

	if !result.StoreExists {
		s.bridge.SetProject(result.ProjectRoot, result.Record.LinkStoreFilePath)
		err = s.bridge.ShowDefault(ctx)
	} else {
		s.bridge.SetProject(result.ProjectRoot, "")
		err = s.bridge.Load(ctx, result.Record.LinkStoreFilePath)
	}
	s.bridge.report("openProject", err)
	return err
}

// CloseProject flushes the tree to the link store, then forgets the project
// and resets the surface.
func (s *Session) CloseProject(ctx context.Context) error {
	if path := s.bridge.LinkStorePath(); path != "" && s.bridge.Attached() {
		err := s.bridge.requestSave(ctx, path, false).Wait(ctx)
		if err != nil && !errors.Is(err, application.ErrNoSurface) {
			s.bridge.logger.Warn("final save failed", "path", path, "error", err)
		}
	}

	s.mu.Lock()
	s.record = domain.ProjectRecord{}
	s.mu.Unlock()
	s.bridge.SetProject("", "")

	err := s.bridge.Reset(ctx)
	if errors.Is(err, application.ErrNoSurface) {
		return nil
	}
	return err
}

// SetLinkStorePath points the open project at another link store file
func (s *Session) SetLinkStorePath(ctx context.Context, path string) error {
	if err := application.ValidateRequired("linkStoreFilePath", path); err != nil {
		return err
	}

	s.mu.Lock()
	if s.record.IsEmpty() {
		s.mu.Unlock()
		return application.ErrNoProject
	}
	s.record.LinkStoreFilePath = path
	rec := s.record
	s.mu.Unlock()

	_, root := s.bridge.current()
	s.bridge.SetProject(root, path)
	return s.registry.Upsert(ctx, rec)
}

// LinkSelection is the host's "link current selection" command
func (s *Session) LinkSelection(ctx context.Context, sel ports.Selection) (string, error) {
	if err := s.bridge.SelectionChanged(ctx, &sel); err != nil {
		return "", err
	}
	return s.bridge.LinkSelection(ctx, sel)
}

func (s *Session) linkStorePathChanged(ctx context.Context, path string) {
	s.mu.Lock()
	if s.record.IsEmpty() || s.record.LinkStoreFilePath == path {
		s.mu.Unlock()
		return
	}
	s.record.LinkStoreFilePath = path
	rec := s.record
	s.mu.Unlock()

	if err := s.registry.Upsert(ctx, rec); err != nil {
		s.bridge.report("recordLinkStore", err)
	}
}
