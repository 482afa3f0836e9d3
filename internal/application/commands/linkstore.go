package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// SaveLinkStoreResult contains the result of writing a link store
type SaveLinkStoreResult struct {
	Path    string
	Message string
}

// SaveLinkStoreCommand writes an exported mind map to a link store file.
// Data that does not parse as a mind map is refused so an existing store is
// never replaced by garbage.
type SaveLinkStoreCommand struct {
	files ports.LinkFiles
	Path  string
	Data  string
}

// NewSaveLinkStoreCommand creates a new SaveLinkStoreCommand
func NewSaveLinkStoreCommand(files ports.LinkFiles, path, data string) *SaveLinkStoreCommand {
	return &SaveLinkStoreCommand{files: files, Path: path, Data: data}
}

// Validate checks if the save operation is valid
func (c *SaveLinkStoreCommand) Validate() error {
	if err := application.ValidateRequired("linkStoreFilePath", c.Path); err != nil {
		return err
	}
	return application.ValidateRequired("data", c.Data)
}

// Execute runs the save command
func (c *SaveLinkStoreCommand) Execute(ctx context.Context) (*SaveLinkStoreResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseMindMap([]byte(c.Data)); err != nil {
		return nil, &application.ParseError{Source: "exported mind map", Err: err}
	}

	if err := c.files.Write(ctx, c.Path, []byte(c.Data)); err != nil {
		return nil, &application.IOError{Op: "write", Path: c.Path, Err: err}
	}

	return &SaveLinkStoreResult{
		Path:    c.Path,
		Message: fmt.Sprintf("Saved mind map to %s", c.Path),
	}, nil
}

// LoadLinkStoreResult contains a link store read from disk
type LoadLinkStoreResult struct {
	Path    string
	Data    string
	Map     *domain.MindMap
	Message string
}

// LoadLinkStoreCommand reads and parses a link store file
type LoadLinkStoreCommand struct {
	files ports.LinkFiles
	Path  string
}

// NewLoadLinkStoreCommand creates a new LoadLinkStoreCommand
func NewLoadLinkStoreCommand(files ports.LinkFiles, path string) *LoadLinkStoreCommand {
	return &LoadLinkStoreCommand{files: files, Path: path}
}

// Validate checks if the load operation is valid
func (c *LoadLinkStoreCommand) Validate() error {
	return application.ValidateRequired("linkStoreFilePath", c.Path)
}

// Execute runs the load command
func (c *LoadLinkStoreCommand) Execute(ctx context.Context) (*LoadLinkStoreResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	data, err := c.files.Read(ctx, c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", c.Path, application.ErrNotFound)
		}
		return nil, &application.IOError{Op: "read", Path: c.Path, Err: err}
	}

	m, err := domain.ParseMindMap(data)
	if err != nil {
		return nil, &application.ParseError{Source: c.Path, Err: err}
	}

	return &LoadLinkStoreResult{
		Path:    c.Path,
		Data:    string(data),
		Map:     m,
		Message: fmt.Sprintf("Loaded mind map from %s", c.Path),
	}, nil
}
