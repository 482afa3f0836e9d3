package commands

import (
	"context"
	"fmt"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// NavigateResult contains the position the editor was moved to
type NavigateResult struct {
	Path     string
	Line     int
	Column   int
	Resolved bool // false when the snippet was not found and TopLine was used
	Message  string
}

// NavigateCommand opens the file a code reference points at and moves the
// caret to the snippet's current location.
type NavigateCommand struct {
	nav         ports.Navigator
	Ref         domain.CodeReference
	ProjectRoot string
	Options     domain.MatchOptions
}

// NewNavigateCommand creates a new NavigateCommand
func NewNavigateCommand(nav ports.Navigator, ref domain.CodeReference, projectRoot string, opts domain.MatchOptions) *NavigateCommand {
	return &NavigateCommand{
		nav:         nav,
		Ref:         ref,
		ProjectRoot: projectRoot,
		Options:     opts,
	}
}

// Validate checks if the navigation is possible
func (c *NavigateCommand) Validate() error {
	if err := application.ValidateRequired("filePath", c.Ref.FilePath); err != nil {
		return err
	}
	return application.ValidateLine("topLine", c.Ref.TopLine)
}

// Execute runs the navigate command
func (c *NavigateCommand) Execute(ctx context.Context) (*NavigateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := NewResolveLinkCommand(c.nav, c.Ref, c.ProjectRoot, c.Options).Execute(ctx)
	if err != nil {
		return nil, err
	}
	path, line, column, resolved := res.Path, res.Line, res.Column, res.Resolved

	if err := c.nav.SetCaret(path, line, column); err != nil {
		return nil, fmt.Errorf("failed to set caret: %w", err)
	}
	if err := c.nav.Reveal(ctx, path, line, column); err != nil {
		return nil, fmt.Errorf("failed to reveal line: %w", err)
	}

	msg := fmt.Sprintf("Jumped to %s:%d", path, line)
	if !resolved {
		msg = fmt.Sprintf("Code not found in %s, jumped to recorded line %d", path, line)
	}
	return &NavigateResult{
		Path:     path,
		Line:     line,
		Column:   column,
		Resolved: resolved,
		Message:  msg,
	}, nil
}
