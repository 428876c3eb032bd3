package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidtrack/vidtrack/style"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case eventsState:
		output = listExtraPaddingStyle.Render(b.eventsC.View())
	case detailState:
		title := "Event"
		if item, ok := b.selected(); ok {
			title = string(item.event.Type)
		}
		output = b.renderLines(style.Title(title), b.detailC.View())
	case summaryState:
		output = b.renderLines(style.Title("Summary"), b.summaryC.View())
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) renderLines(lines ...string) string {
	body := strings.Join(lines, "\n\n")
	if h := lipgloss.Height(body); b.height > h+1 {
		body += strings.Repeat("\n", b.height-h-1)
	}

	return paddingStyle.Render(body + "\n" + b.helpC.View(b.keymap))
}
