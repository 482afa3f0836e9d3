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

// ResolveLinkResult is where a code reference currently points
type ResolveLinkResult struct {
	Path     string
	Line     int
	Column   int
	Text     string // content of Line, empty for an empty file
	Resolved bool   // false when the snippet was not found and TopLine was used
	Message  string
}

// ResolveLinkCommand finds a snippet's current line without moving the caret
type ResolveLinkCommand struct {
	nav         ports.Navigator
	Ref         domain.CodeReference
	ProjectRoot string
	Options     domain.MatchOptions
}

// NewResolveLinkCommand creates a new ResolveLinkCommand
func NewResolveLinkCommand(nav ports.Navigator, ref domain.CodeReference, projectRoot string, opts domain.MatchOptions) *ResolveLinkCommand {
	return &ResolveLinkCommand{
		nav:         nav,
		Ref:         ref,
		ProjectRoot: projectRoot,
		Options:     opts,
	}
}

// Validate checks if the reference can be resolved
func (c *ResolveLinkCommand) Validate() error {
	if err := application.ValidateRequired("filePath", c.Ref.FilePath); err != nil {
		return err
	}
	return application.ValidateLine("topLine", c.Ref.TopLine)
}

// Execute runs the resolve command
func (c *ResolveLinkCommand) Execute(ctx context.Context) (*ResolveLinkResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	path := domain.ToAbsolute(c.Ref.FilePath, c.ProjectRoot)
	lines, err := readLines(ctx, c.nav, path)
	if err != nil {
		return nil, err
	}

	line, resolved := domain.ResolveLine(lines, c.Ref, c.Options)
	if len(lines) > 0 && line > len(lines) {
		line = len(lines)
	}

	var text string
	column := 0
	if line <= len(lines) {
		text = lines[line-1]
		column = domain.FirstNonWhitespaceColumn(text)
	}

	msg := fmt.Sprintf("%s:%d", path, line)
	if !resolved {
		msg = fmt.Sprintf("%s:%d (code not found, recorded line)", path, line)
	}
	return &ResolveLinkResult{
		Path:     path,
		Line:     line,
		Column:   column,
		Text:     text,
		Resolved: resolved,
		Message:  msg,
	}, nil
}

func readLines(ctx context.Context, nav ports.Navigator, path string) ([]string, error) {
	count, err := nav.OpenFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, application.ErrNotFound)
		}
		return nil, &application.IOError{Op: "open", Path: path, Err: err}
	}

	lines := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		text, err := nav.LineText(path, i)
		if err != nil {
			return nil, &application.IOError{Op: "read", Path: path, Err: err}
		}
		lines = append(lines, text)
	}
	return lines, nil
}
