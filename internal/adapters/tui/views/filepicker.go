package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"codemindmap/internal/adapters/tui/styles"
)

var pickerCancel = key.NewBinding(
	key.WithKeys("q", "ctrl+c"),
	key.WithHelp("q", "cancel"),
)

// FilePickerModel lets the user pick an existing file
type FilePickerModel struct {
	ViewState
	Title  string
	Picker filepicker.Model
	result Result
}

// NewFilePickerModel creates a picker that starts in dir
func NewFilePickerModel(title, dir string) *FilePickerModel {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.Height = 15
	fp.ShowHidden = false

	return &FilePickerModel{
		Title:  title,
		Picker: fp,
	}
}

// Init reads the starting directory
func (m *FilePickerModel) Init() tea.Cmd {
	return m.Picker.Init()
}

// Update handles messages for the picker
func (m *FilePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, pickerCancel) {
			m.result = Result{}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)

	if didSelect, path := m.Picker.DidSelectFile(msg); didSelect {
		m.result = Result{Value: path, Confirmed: true}
		return m, tea.Quit
	}
	return m, cmd
}

// Result returns the picked file
func (m *FilePickerModel) Result() Result {
	return m.result
}

// View renders the picker
func (m *FilePickerModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(m.Picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.Picker.View())
	b.WriteString("\n")
	b.WriteString(styles.HelpKey.Render("enter") + " " + styles.HelpDesc.Render("open") + "  ")
	b.WriteString(styles.HelpKey.Render("q") + " " + styles.HelpDesc.Render("cancel"))
	return styles.Dialog.Render(b.String())
}
