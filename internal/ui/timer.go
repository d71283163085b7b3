// Package ui holds the terminal widgets mounted into the dashboard shell.
package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focusdock/internal/timer"
)

var (
	clockStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(1, 4)
	modeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pausedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	notificationStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2).Foreground(lipgloss.Color("13"))
)

type clockTickMsg time.Time

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// TimerModel drives the timer engine from the bubbletea event loop. The
// engine runs in manual-tick mode so there is exactly one clock source.
type TimerModel struct {
	engine *timer.Engine
	keys   timerKeyMap
	help   help.Model
}

// NewTimerModel wraps an engine built with [timer.WithManualTick].
func NewTimerModel(engine *timer.Engine) TimerModel {
	return TimerModel{
		engine: engine,
		keys:   newTimerKeyMap(),
		help:   help.New(),
	}
}

func (m TimerModel) Init() tea.Cmd {
	return clockTickCmd()
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		m.engine.Tick()
		return m, clockTickCmd()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.startPause):
			if m.engine.State().Running {
				m.engine.Pause()
			} else {
				m.engine.Start()
			}
		case key.Matches(msg, m.keys.pomodoro):
			m.engine.SelectPomodoro()
		case key.Matches(msg, m.keys.brk):
			m.engine.SelectBreak()
		case key.Matches(msg, m.keys.restart):
			m.engine.Restart()
		case key.Matches(msg, m.keys.dismiss):
			m.engine.DismissNotification()
		}
	}
	return m, nil
}

func (m TimerModel) View() string {
	st := m.engine.State()

	var status string
	switch {
	case st.Running:
		status = modeStyle.Render(st.Mode.String() + " · running")
	case st.Time > 0:
		status = pausedStyle.Render(st.Mode.String() + " · paused")
	default:
		status = pausedStyle.Render(st.Mode.String())
	}

	lines := []string{
		panelStyle.Render(clockStyle.Render(m.engine.Display())),
		status,
	}
	if note := m.engine.Notification(); note != "" {
		lines = append(lines, notificationStyle.Render(note))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
