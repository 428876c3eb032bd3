package tui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/internal/ui"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/util"
)

// statefulBubble is the inspector model.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	eventsC  list.Model
	detailC  viewport.Model
	summaryC viewport.Model
	helpC    help.Model

	summary analytics.Summary

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.eventsC.SetSize(width-xx, height-yy)
	b.eventsC.Help.Width = width - xx
	b.helpC.Width = width - xx

	// title, blank line and help
	viewHeight := util.Max(b.height-3, 1)
	b.detailC.Width, b.detailC.Height = b.width, viewHeight
	b.summaryC.Width, b.summaryC.Height = b.width, viewHeight

	b.summaryC.SetContent(b.renderSummary())
	if b.state == detailState {
		b.showDetail()
	}
}

// selected returns the highlighted event, if any.
func (b *statefulBubble) selected() (*listItem, bool) {
	item, ok := b.eventsC.SelectedItem().(*listItem)
	return item, ok
}

// showDetail renders the selected event as indented wire JSON.
func (b *statefulBubble) showDetail() {
	item, ok := b.selected()
	if !ok {
		return
	}

	raw, err := json.MarshalIndent(item.event, "", "  ")
	if err != nil {
		raw = []byte(err.Error())
	}

	b.detailC.SetContent(wordwrap.String(string(raw), util.Max(b.width, 20)))
	b.detailC.GotoTop()
}

func newBubble(options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap:   newStatefulKeymap(),
		notifier: &ui.Model{},
		options:  options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	items := lo.Map(options.Events, func(ev event.VideoEvent, i int) list.Item {
		return &listItem{index: i, event: ev}
	})

	bubble.eventsC = list.New(items, delegate, 0, 0)
	bubble.eventsC.KeyMap = bubble.keymap.forList()
	bubble.eventsC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.eventsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.eventsC.Title = options.Title
	bubble.eventsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.eventsC.Styles.NoItems = paddingStyle
	bubble.eventsC.SetStatusBarItemName("event", "events")

	bubble.detailC = viewport.New(0, 0)
	bubble.summaryC = viewport.New(0, 0)
	bubble.helpC = help.New()

	aggregator := analytics.New()
	for _, ev := range options.Events {
		aggregator.AddEvent(ev)
	}
	bubble.summary = aggregator.Summary()
	bubble.summaryC.SetContent(bubble.renderSummary())

	bubble.setState(eventsState)
	return bubble
}

func (b *statefulBubble) renderSummary() string {
	s := b.summary

	rows := [][2]string{
		{"Events", fmt.Sprint(len(b.options.Events))},
		{"Play time", util.Millis(s.TotalPlayTime)},
		{"Pause time", util.Millis(s.TotalPauseTime)},
		{"Seeks", fmt.Sprint(s.SeekCount)},
		{"Buffers", fmt.Sprint(s.BufferCount)},
		{"Average buffer", util.Millis(s.AverageBufferDuration)},
		{"Completion", fmt.Sprintf("%.1f%%", s.CompletionRate)},
		{"Engagement", fmt.Sprintf("%.1f", s.EngagementScore)},
		{"Quality changes", fmt.Sprint(s.QualityChanges)},
		{"Errors", fmt.Sprint(s.Errors)},
	}

	labelStyle := lipgloss.NewStyle().Width(18).Foreground(style.Subtext)
	lines := lo.Map(rows, func(row [2]string, _ int) string {
		return labelStyle.Render(row[0]) + style.Bold(row[1])
	})

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
