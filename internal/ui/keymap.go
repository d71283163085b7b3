package ui

import "github.com/charmbracelet/bubbles/key"

// timerKeyMap defines the [key.Binding] mapping for the timer widget.
type timerKeyMap struct {
	startPause key.Binding
	restart    key.Binding
	pomodoro   key.Binding
	brk        key.Binding
	dismiss    key.Binding
	quit       key.Binding
}

func newTimerKeyMap() timerKeyMap {
	return timerKeyMap{
		startPause: key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
		pomodoro:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pomodoro")),
		brk:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		dismiss:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.startPause, k.pomodoro, k.brk, k.restart, k.quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.startPause, k.pomodoro, k.brk},
		{k.restart, k.dismiss, k.quit},
	}
}

// musicKeyMap defines the bindings for the music widget.
type musicKeyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	quit   key.Binding
}

func newMusicKeyMap() musicKeyMap {
	return musicKeyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play/pause")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k musicKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.toggle, k.quit}
}

func (k musicKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down}, {k.toggle, k.quit}}
}
