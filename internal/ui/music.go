package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	trackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	playingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// MusicModel is the ambient-sound companion widget. It cycles a fixed set of
// focus tracks; playback itself is a display concern here.
type MusicModel struct {
	tracks  []string
	cursor  int
	playing bool
	keys    musicKeyMap
	help    help.Model
}

func NewMusicModel() MusicModel {
	return MusicModel{
		tracks: []string{
			"Rain on a tin roof",
			"Coffee shop murmur",
			"Deep space drone",
			"Forest morning",
		},
		keys: newMusicKeyMap(),
		help: help.New(),
	}
}

func (m MusicModel) Init() tea.Cmd { return nil }

func (m MusicModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.down):
			if m.cursor < len(m.tracks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.toggle):
			m.playing = !m.playing
		}
	}
	return m, nil
}

func (m MusicModel) View() string {
	var b strings.Builder
	for i, track := range m.tracks {
		line := trackStyle.Render(track)
		if i == m.cursor {
			marker := "▸"
			if m.playing {
				marker = "▶"
				line = playingStyle.Render(track)
			} else {
				line = selectedStyle.Render(track)
			}
			b.WriteString(fmt.Sprintf("%s %s\n", marker, line))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s\n", line))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return panelStyle.Render(b.String())
}
