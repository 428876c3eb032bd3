// Package tui is the terminal inspector for recorded event streams.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/player"
)

// Options configure the inspector.
type Options struct {
	// Title names the stream, usually the file it was read from.
	Title  string
	Events []event.VideoEvent

	// Player is recorded with the summary when it is saved to history.
	Player player.Kind
}

// Run blocks until the inspector is closed.
func Run(options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
