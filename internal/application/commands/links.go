package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// LinkStatus is one linked node and where its code is now
type LinkStatus struct {
	NodeID    string
	Reference domain.CodeReference
	Line      int    // resolved line, 0 when the file could not be read
	Resolved  bool   // the snippet was found
	Err       string // why the file could not be read
}

// ListLinksResult contains every link of a project's link store
type ListLinksResult struct {
	Record  domain.ProjectRecord
	Links   []LinkStatus
	Message string
}

// ListLinksCommand resolves every code link of a registered project
type ListLinksCommand struct {
	registry        *application.ProjectRegistry
	files           ports.LinkFiles
	nav             ports.Navigator
	ProjectFilePath string
	Options         domain.MatchOptions
}

// NewListLinksCommand creates a new ListLinksCommand
func NewListLinksCommand(registry *application.ProjectRegistry, files ports.LinkFiles, nav ports.Navigator, projectFilePath string, opts domain.MatchOptions) *ListLinksCommand {
	return &ListLinksCommand{
		registry:        registry,
		files:           files,
		nav:             nav,
		ProjectFilePath: projectFilePath,
		Options:         opts,
	}
}

// Validate checks if the links can be listed
func (c *ListLinksCommand) Validate() error {
	return application.ValidateRequired("projectFilePath", c.ProjectFilePath)
}

// Execute runs the list links command
func (c *ListLinksCommand) Execute(ctx context.Context) (*ListLinksResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	path := filepath.Clean(c.ProjectFilePath)
	rec, ok := c.registry.Lookup(ctx, path)
	if !ok {
		return nil, fmt.Errorf("project %s: %w", path, application.ErrNotFound)
	}

	store, err := NewLoadLinkStoreCommand(c.files, rec.LinkStoreFilePath).Execute(ctx)
	if err != nil {
		return nil, err
	}

	root := application.ProjectRoot(path)
	var links []LinkStatus
	for _, ln := range store.Map.References() {
		status := LinkStatus{NodeID: ln.NodeID, Reference: ln.Reference}
		res, err := NewResolveLinkCommand(c.nav, ln.Reference, root, c.Options).Execute(ctx)
		if err != nil {
			status.Err = err.Error()
		} else {
			status.Line = res.Line
			status.Resolved = res.Resolved
		}
		links = append(links, status)
	}

	return &ListLinksResult{
		Record:  rec,
		Links:   links,
		Message: fmt.Sprintf("%d links in %s", len(links), rec.LinkStoreFilePath),
	}, nil
}
