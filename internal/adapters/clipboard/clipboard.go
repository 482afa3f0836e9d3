package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
var ErrUnsupported = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")

// System writes to the desktop clipboard
type System struct{}

// New creates a system clipboard
func New() *System {
	return &System{}
}

// WriteAll replaces the clipboard contents with text
func (s *System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
