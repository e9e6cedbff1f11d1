package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spotfetch/internal/model"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
)

// pickerModel is a minimal list selector for search results.
type pickerModel struct {
	title   string
	tracks  []*model.Track
	cursor  int
	choice  int
	aborted bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tracks)-1 {
				m.cursor++
			}
		case "enter":
			m.choice = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, track := range m.tracks {
		minutes := track.DurationSeconds() / 60
		seconds := track.DurationSeconds() % 60
		line := fmt.Sprintf("%s  %s (%d:%02d)", track.String(), track.Album, minutes, seconds)

		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("up/down: move  enter: download  esc: cancel"))
	return b.String()
}

// PickTrack shows an interactive selector and returns the chosen
// track. A nil track with a nil error means the user cancelled.
func PickTrack(title string, tracks []*model.Track) (*model.Track, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("nothing to pick from")
	}

	m := pickerModel{title: title, tracks: tracks, choice: -1}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}

	result := final.(pickerModel)
	if result.aborted || result.choice < 0 {
		return nil, nil
	}
	return tracks[result.choice], nil
}
