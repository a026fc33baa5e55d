// Package confirm provides a yes/no prompt for destructive commands.
package confirm

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the confirm prompt model.
// Fields are ordered to minimize memory padding.
type Model struct {
	keys      KeyMap
	styles    Styles
	title     string
	lines     []string
	confirmed bool
	done      bool
}

// New creates a prompt with a title and detail lines.
func New(title string, lines ...string) *Model {
	return &Model{
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		title:  title,
		lines:  lines,
	}
}

// Confirmed reports whether the user answered yes.
func (m *Model) Confirmed() bool {
	return m.confirmed
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Cancel):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the dialog. Nothing is left on screen once answered.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	rows := []string{m.styles.Title.Render(m.title), ""}
	for _, l := range m.lines {
		rows = append(rows, m.styles.Text.Render(l))
	}
	rows = append(rows, "",
		m.styles.Key.Render("[ y ]")+m.styles.Text.Render(" Confirm  ")+
			m.styles.Muted.Render("[ n ]")+m.styles.Muted.Render(" Cancel"))
	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

// Ask shows the prompt on out, reads keys from in and reports the answer.
func Ask(in io.Reader, out io.Writer, title string, lines ...string) (bool, error) {
	p := tea.NewProgram(New(title, lines...), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("run prompt: %w", err)
	}
	m, ok := final.(*Model)
	if !ok {
		return false, fmt.Errorf("run prompt: unexpected model %T", final)
	}
	return m.Confirmed(), nil
}
