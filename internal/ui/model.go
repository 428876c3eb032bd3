// Package ui shows short-lived notifications under a bubbletea view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model holds the notification currently shown.
type Model struct {
	notification string
}

// NotificationMsg sets the notification text.
type NotificationMsg string

// ClearNotificationMsg removes the notification.
type ClearNotificationMsg struct{}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

func clearAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Update returns the command that clears a notification once its lifetime passes.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		return clearAfter(Lifetime)
	case ClearNotificationMsg:
		m.notification = ""
	}
	return nil
}

func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  \033[90m" + m.notification + "\033[0m"
	return strings.Join(lines, "\n")
}
