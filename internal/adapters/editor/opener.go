package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// gotoStyle is how an editor accepts a line and column on its command line
type gotoStyle int

const (
	gotoPlusLine  gotoStyle = iota // vim +12 file
	gotoFlag                       // code --goto file:12:5
	gotoPathColon                  // subl file:12:5
)

var editorStyles = map[string]gotoStyle{
	"code":          gotoFlag,
	"code-insiders": gotoFlag,
	"codium":        gotoFlag,
	"cursor":        gotoFlag,
	"subl":          gotoPathColon,
	"zed":           gotoPathColon,
	"hx":            gotoPathColon,
}

// GUI editors return immediately; terminal editors take over the tty
var guiEditors = map[string]bool{
	"code": true, "code-insiders": true, "codium": true, "cursor": true, "subl": true, "zed": true,
}

// Opener launches the user's editor at a position
type Opener struct {
	editor string
}

// NewOpener creates an opener. An empty editor picks one from the
// environment.
func NewOpener(editor string) *Opener {
	return &Opener{editor: editor}
}

// Launch opens path in the editor with the caret at line and 1-based column
func (o *Opener) Launch(ctx context.Context, path string, line, column int) error {
	cmd, err := o.Command(ctx, path, line, column)
	if err != nil {
		return err
	}
	if tty, ok := cmd.Stdin.(*os.File); ok && tty != os.Stdin {
		defer tty.Close()
	}
	if guiEditors[filepath.Base(cmd.Path)] {
		return cmd.Start()
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file at a position
func (o *Opener) Command(ctx context.Context, path string, line, column int) (*exec.Cmd, error) {
	editor := o.editor
	if editor == "" {
		editor = o.findEditor()
	}
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.CommandContext(ctx, editor, Args(editor, path, line, column)...)
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err == nil {
		cmd.Stdin = tty
		cmd.Stdout = tty
	}
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// Args returns the command line arguments that open path at line:column
// in editor
func Args(editor, path string, line, column int) []string {
	pos := strconv.Itoa(line) + ":" + strconv.Itoa(column)
	switch editorStyles[filepath.Base(editor)] {
	case gotoFlag:
		return []string{"--goto", path + ":" + pos}
	case gotoPathColon:
		return []string{path + ":" + pos}
	default:
		return []string{"+" + strconv.Itoa(line), path}
	}
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	// Check $EDITOR first
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	// Check $VISUAL
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Try common editors
	editors := []string{"code", "nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
