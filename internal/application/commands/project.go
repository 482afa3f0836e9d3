package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// OpenProjectResult contains the record of the opened project
type OpenProjectResult struct {
	Record      domain.ProjectRecord
	ProjectRoot string
	Created     bool // the record was registered by this call
	StoreExists bool // the link store file is already on disk
	Message     string
}

// OpenProjectCommand finds or registers the record for a project file
type OpenProjectCommand struct {
	registry        *application.ProjectRegistry
	files           ports.LinkFiles
	ProjectFilePath string
}

// NewOpenProjectCommand creates a new OpenProjectCommand
func NewOpenProjectCommand(registry *application.ProjectRegistry, files ports.LinkFiles, projectFilePath string) *OpenProjectCommand {
	return &OpenProjectCommand{
		registry:        registry,
		files:           files,
		ProjectFilePath: projectFilePath,
	}
}

// Validate checks if the project can be opened
func (c *OpenProjectCommand) Validate() error {
	if err := application.ValidateRequired("projectFilePath", c.ProjectFilePath); err != nil {
		return err
	}
	if !filepath.IsAbs(c.ProjectFilePath) {
		return &application.ValidationError{
			Field:   "projectFilePath",
			Message: fmt.Sprintf("expected absolute path, got: %s", c.ProjectFilePath),
		}
	}
	return nil
}

// Execute runs the open project command
func (c *OpenProjectCommand) Execute(ctx context.Context) (*OpenProjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	path := filepath.Clean(c.ProjectFilePath)
	id := domain.ProjectID(path)
	rec, created, err := c.registry.FindOrCreate(ctx, id, path)
	if err != nil {
		return nil, fmt.Errorf("failed to register project: %w", err)
	}

	exists, err := c.files.Exists(ctx, rec.LinkStoreFilePath)
	if err != nil {
		return nil, &application.IOError{Op: "stat", Path: rec.LinkStoreFilePath, Err: err}
	}

	msg := fmt.Sprintf("Opened project %s", id)
	if created {
		msg = fmt.Sprintf("Registered project %s", id)
	}
	return &OpenProjectResult{
		Record:      rec,
		ProjectRoot: application.ProjectRoot(path),
		Created:     created,
		StoreExists: exists,
		Message:     msg,
	}, nil
}
