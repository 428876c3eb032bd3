package tui

import (
	"errors"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidtrack/vidtrack/history"
	"github.com/vidtrack/vidtrack/internal/ui"
)

func (b *statefulBubble) Init() tea.Cmd {
	return nil
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		// keys typed into the filter belong to the list
		if b.state == eventsState && b.eventsC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.save):
			return b, tea.Batch(cmd, b.saveToHistory())
		}

		switch b.state {
		case eventsState:
			switch {
			case bubblesKey.Matches(msg, b.keymap.confirm):
				if _, ok := b.selected(); ok {
					b.showDetail()
					b.setState(detailState)
				}
				return b, cmd
			case bubblesKey.Matches(msg, b.keymap.summary):
				b.summaryC.GotoTop()
				b.setState(summaryState)
				return b, cmd
			}
		case detailState, summaryState:
			if bubblesKey.Matches(msg, b.keymap.back) {
				b.setState(eventsState)
				return b, cmd
			}
		}
	}

	var sub tea.Cmd
	switch b.state {
	case eventsState:
		b.eventsC, sub = b.eventsC.Update(msg)
	case detailState:
		b.detailC, sub = b.detailC.Update(msg)
	case summaryState:
		b.summaryC, sub = b.summaryC.Update(msg)
	}

	return b, tea.Batch(cmd, sub)
}

// saveToHistory stores the summary under the session of the first event.
func (b *statefulBubble) saveToHistory() tea.Cmd {
	if len(b.options.Events) == 0 {
		return b.notifyErr(errors.New("nothing to save"))
	}

	sessionID := b.options.Events[0].Data.SessionID
	if sessionID == "" {
		return b.notifyErr(errors.New("the stream has no session id"))
	}

	err := history.Save(&history.Record{
		SessionID: sessionID,
		Player:    b.options.Player,
		Script:    b.options.Title,
		Events:    len(b.options.Events),
		Summary:   b.summary,
		SavedAt:   time.Now(),
	})
	if err != nil {
		return b.notifyErr(err)
	}

	return ui.Notify("Saved " + sessionID)
}

func (b *statefulBubble) notifyErr(err error) tea.Cmd {
	return ui.Notify("Not saved: " + err.Error())
}
