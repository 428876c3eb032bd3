package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/history"
	"github.com/vidtrack/vidtrack/internal/ui"
	"github.com/vidtrack/vidtrack/player"
)

func init() {
	filesystem.SetMemMapFs()
}

func stream() []event.VideoEvent {
	base := event.Base{Duration: 60, Volume: 1, SessionID: "inspect-session"}

	play := event.VideoEvent{Type: event.Play, Data: event.Data{Base: base}}
	play.Data.Timestamp = 1000

	seek := event.VideoEvent{Type: event.Seek, Data: event.Data{Base: base, SeekInfo: &event.SeekInfo{FromTime: 2, ToTime: 30}}}
	seek.Data.Timestamp = 3000

	pause := event.VideoEvent{Type: event.Pause, Data: event.Data{Base: base}}
	pause.Data.Timestamp = 11000
	pause.Data.Paused = true

	return []event.VideoEvent{play, seek, pause}
}

func press(b *statefulBubble, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = b.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspector(t *testing.T) {
	Convey("Given an inspector over a short stream", t, func() {
		b := newBubble(&Options{Title: "events.jsonl", Events: stream(), Player: player.KindHTML5})
		b.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

		Convey("It starts on the event list", func() {
			So(b.state, ShouldEqual, eventsState)
			So(b.eventsC.Items(), ShouldHaveLength, 3)
			So(b.View(), ShouldContainSubstring, "events.jsonl")
		})

		Convey("The summary is folded up front", func() {
			So(b.summary.SeekCount, ShouldEqual, 1)
			So(b.summary.TotalPlayTime, ShouldEqual, 10000)
		})

		Convey("Enter opens the selected event", func() {
			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, detailState)
			So(b.View(), ShouldContainSubstring, `"type": "play"`)

			Convey("And esc goes back", func() {
				press(b, tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, eventsState)
			})
		})

		Convey("Moving down selects the next event", func() {
			press(b, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
			So(b.View(), ShouldContainSubstring, `"toTime": 30`)
		})

		Convey("s shows the summary", func() {
			press(b, runes("s"))
			So(b.state, ShouldEqual, summaryState)
			So(b.View(), ShouldContainSubstring, "Seeks")
		})

		Convey("q quits", func() {
			cmd := press(b, runes("q"))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldResemble, tea.Quit())
		})

		Convey("w saves the summary to history", func() {
			So(history.Clear(), ShouldBeNil)

			cmd := press(b, runes("w"))
			So(cmd, ShouldNotBeNil)

			saved, err := history.Get()
			So(err, ShouldBeNil)
			So(saved, ShouldContainKey, "inspect-session")
			So(saved["inspect-session"].Player, ShouldEqual, player.KindHTML5)
			So(saved["inspect-session"].Events, ShouldEqual, 3)
		})
	})

	Convey("Given an empty stream", t, func() {
		b := newBubble(&Options{Title: "empty"})

		Convey("Saving reports that there is nothing to save", func() {
			msg := b.saveToHistory()()
			So(string(msg.(ui.NotificationMsg)), ShouldStartWith, "Not saved")
		})

		Convey("Enter stays on the list", func() {
			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, eventsState)
		})
	})
}

func TestListItem(t *testing.T) {
	Convey("Given list items", t, func() {
		events := stream()

		Convey("Seeks describe their jump", func() {
			item := &listItem{index: 1, event: events[1]}
			So(item.Description(), ShouldEqual, "2.00s → 30.00s")
			So(item.FilterValue(), ShouldEqual, "seek")
		})

		Convey("Plain events list their flags", func() {
			item := &listItem{index: 2, event: events[2]}
			So(item.Description(), ShouldEqual, "paused")

			events[0].Data.Volume = 0.5
			So((&listItem{event: events[0]}).Description(), ShouldEqual, "volume 50%")
		})

		Convey("Quality changes name both renditions", func() {
			ev := events[0]
			ev.Type = event.QualityChanged
			ev.Data.QualityChange = &event.QualityChange{CurrentQuality: &player.Quality{Width: 1280, Height: 720, Level: "720p"}}
			So((&listItem{event: ev}).Description(), ShouldEqual, "none → 1280x720 720p")
		})

		Convey("Titles are numbered from one", func() {
			So(strings.TrimSpace((&listItem{index: 0, event: events[0]}).Title()), ShouldStartWith, "1")
		})
	})
}
