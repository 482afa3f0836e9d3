package views

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codemindmap/internal/adapters/tui/styles"
)

// PromptKeyMap defines key bindings for the path prompt
type PromptKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultPromptKeys returns the default path prompt key bindings
var DefaultPromptKeys = PromptKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// PathPromptModel asks for a file path to save to, prefilled with a default
type PathPromptModel struct {
	ViewState
	Title  string
	Input  textinput.Model
	Keys   PromptKeyMap
	base   string
	result Result
}

// NewPathPromptModel creates a prompt whose relative answers resolve
// against the default path's directory
func NewPathPromptModel(title, defaultPath string) *PathPromptModel {
	input := textinput.New()
	input.Placeholder = "path/to/CodeMindMap.txt"
	input.CharLimit = 4096
	input.Width = 60
	input.SetValue(defaultPath)
	input.Focus()

	return &PathPromptModel{
		Title: title,
		Input: input,
		Keys:  DefaultPromptKeys,
		base:  filepath.Dir(defaultPath),
	}
}

// Init returns the blink command for the input
func (m *PathPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the prompt
func (m *PathPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			m.result = Result{}
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Submit):
			path := m.Value()
			if path == "" {
				m.SetMessage("a file path is required", true)
				return m, nil
			}
			m.result = Result{Value: path, Confirmed: true}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// Value returns the entered path, made absolute
func (m *PathPromptModel) Value() string {
	path := strings.TrimSpace(m.Input.Value())
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) && m.base != "" {
		path = filepath.Join(m.base, path)
	}
	return filepath.Clean(path)
}

// Result returns the chosen path
func (m *PathPromptModel) Result() Result {
	return m.result
}

// View renders the prompt
func (m *PathPromptModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(styles.InputLabel.Render("File"))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(m.Input.View()))
	b.WriteString("\n")
	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpKey.Render("enter") + " " + styles.HelpDesc.Render("save") + "  ")
	b.WriteString(styles.HelpKey.Render("esc") + " " + styles.HelpDesc.Render("cancel"))
	return styles.Dialog.Render(b.String())
}
