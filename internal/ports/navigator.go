package ports

import "context"

// Navigator is the narrow editor capability the host exposes for jumping
// to code. One implementation exists per host editor.
type Navigator interface {
	// OpenFile opens path in the editor and returns its line count
	OpenFile(ctx context.Context, path string) (int, error)

	// LineText returns the text of a 1-based line of an opened file
	LineText(path string, line int) (string, error)

	// SetCaret moves the caret to a 1-based line and 0-based column
	SetCaret(path string, line, column int) error

	// Reveal scrolls the editor so line is centered and brings it to front
	Reveal(ctx context.Context, path string, line, column int) error
}
