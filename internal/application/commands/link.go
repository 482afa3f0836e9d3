package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"codemindmap/internal/application"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
	"codemindmap/internal/protocol"
)

// LinkSelectionResult contains the node to add to the mind map
type LinkSelectionResult struct {
	Node    protocol.AddChildNode
	Message string
}

// LinkSelectionCommand turns an editor selection into a linked child node.
// The file path is stored relative to the project root so the link keeps
// working in another checkout.
type LinkSelectionCommand struct {
	Selection   ports.Selection
	ProjectRoot string
}

// NewLinkSelectionCommand creates a new LinkSelectionCommand
func NewLinkSelectionCommand(sel ports.Selection, projectRoot string) *LinkSelectionCommand {
	return &LinkSelectionCommand{Selection: sel, ProjectRoot: projectRoot}
}

// Validate checks if the selection can be linked
func (c *LinkSelectionCommand) Validate() error {
	if err := application.ValidateRequired("filePath", c.Selection.FilePath); err != nil {
		return err
	}
	if err := application.ValidateLine("topLine", c.Selection.TopLine); err != nil {
		return err
	}
	if strings.TrimSpace(c.code()) == "" {
		return &application.ValidationError{
			Field:   "code",
			Message: "nothing selected and the caret line is blank",
		}
	}
	return nil
}

// code is the selected text, or the caret line when nothing is selected
func (c *LinkSelectionCommand) code() string {
	if c.Selection.IsEmpty() {
		return strings.TrimSpace(c.Selection.CaretLineText)
	}
	return c.Selection.Text
}

// Execute runs the link selection command
func (c *LinkSelectionCommand) Execute(ctx context.Context) (*LinkSelectionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	path := filepath.Clean(c.Selection.FilePath)
	rel := domain.ToRelative(path, c.ProjectRoot)
	data := domain.NewNodeData(rel, c.Selection.TopLine)

	return &LinkSelectionResult{
		Node: protocol.AddChildNode{
			Code:     c.code(),
			NodeData: data,
		},
		Message: fmt.Sprintf("Linked %s:%d", data.FileName, c.Selection.TopLine),
	}, nil
}
