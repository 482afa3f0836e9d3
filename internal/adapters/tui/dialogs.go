package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"codemindmap/internal/adapters/tui/views"
	"codemindmap/internal/ports"
)

// Runner runs a dialog model to completion and returns its final state
type Runner func(ctx context.Context, m tea.Model) (tea.Model, error)

// TTYRunner runs dialogs on the controlling terminal, leaving stdin and
// stdout to the surface stream.
func TTYRunner(ctx context.Context, m tea.Model) (tea.Model, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	defer tty.Close()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)
	return p.Run()
}

// Dialogs shows modal prompts as small terminal programs, one at a time
type Dialogs struct {
	run Runner
	mu  sync.Mutex
}

// Ensure Dialogs implements ports.Dialogs
var _ ports.Dialogs = (*Dialogs)(nil)

// NewDialogs creates dialogs run by run, or on the terminal when run is nil
func NewDialogs(run Runner) *Dialogs {
	if run == nil {
		run = TTYRunner
	}
	return &Dialogs{run: run}
}

// ChooseSaveFile asks for a path to save to, prefilled with defaultPath
func (d *Dialogs) ChooseSaveFile(ctx context.Context, title, defaultPath string) (string, bool, error) {
	res, err := d.show(ctx, views.NewPathPromptModel(title, defaultPath))
	if err != nil {
		return "", false, err
	}
	return res.Value, res.Confirmed, nil
}

// ChooseOpenFile lets the user browse to an existing file
func (d *Dialogs) ChooseOpenFile(ctx context.Context, title, defaultPath string) (string, bool, error) {
	res, err := d.show(ctx, views.NewFilePickerModel(title, startDir(defaultPath)))
	if err != nil {
		return "", false, err
	}
	return res.Value, res.Confirmed, nil
}

// Confirm asks a yes/no question
func (d *Dialogs) Confirm(ctx context.Context, question string) (bool, error) {
	res, err := d.show(ctx, views.NewConfirmModel(question))
	if err != nil {
		return false, err
	}
	return res.Confirmed, nil
}

func (d *Dialogs) show(ctx context.Context, m tea.Model) (views.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	final, err := d.run(ctx, m)
	if err != nil {
		return views.Result{}, fmt.Errorf("dialog: %w", err)
	}
	dialog, ok := final.(views.Dialog)
	if !ok {
		return views.Result{}, fmt.Errorf("dialog: unexpected model %T", final)
	}
	return dialog.Result(), nil
}

func startDir(path string) string {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
