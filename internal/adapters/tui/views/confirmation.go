package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"codemindmap/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation dialogs
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc", "ctrl+c"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmModel asks a yes/no question
type ConfirmModel struct {
	ViewState
	Question string
	Keys     ConfirmKeyMap
	result   Result
}

// NewConfirmModel creates a confirmation dialog with default keys
func NewConfirmModel(question string) *ConfirmModel {
	return &ConfirmModel{
		Question: question,
		Keys:     DefaultConfirmKeys,
	}
}

// Init initializes the dialog
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dialog
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			m.result = Result{}
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Confirm):
			m.result = Result{Confirmed: true}
			return m, tea.Quit
		}
	}
	return m, nil
}

// Result returns whether the user confirmed
func (m *ConfirmModel) Result() Result {
	return m.result
}

// View renders the dialog
func (m *ConfirmModel) View() string {
	return styles.Dialog.Render(RenderConfirmPrompt(m.Question))
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
