package display

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptModel struct {
	title   string
	input   textinput.Model
	aborted bool
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return headerStyle.Render(m.title) + "\n\n" +
		m.input.View() + "\n\n" +
		dimStyle.Render("enter: search  esc: cancel") + "\n"
}

// PromptQuery asks for a free-text search query. An empty string with
// a nil error means the user cancelled.
func PromptQuery(title, placeholder string) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	final, err := tea.NewProgram(promptModel{title: title, input: ti}).Run()
	if err != nil {
		return "", err
	}

	result := final.(promptModel)
	if result.aborted {
		return "", nil
	}
	return result.input.Value(), nil
}
