package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/style"
	"golang.org/x/exp/slices"
)

// listItem wraps one event of the stream.
type listItem struct {
	index int
	event event.VideoEvent
}

// typeColors tints the type column so pauses and errors stand out.
var typeColors = map[event.Type]lipgloss.Color{
	event.Play:           style.Green,
	event.Pause:          style.Yellow,
	event.Seek:           style.Sky,
	event.BufferStart:    style.Peach,
	event.BufferEnd:      style.Peach,
	event.QualityChanged: style.Lavender,
	event.Error:          style.Red,
	event.Ended:          style.Mauve,
	event.Progress:       style.Subtext,
}

func (t *listItem) FilterValue() string {
	return string(t.event.Type)
}

func (t *listItem) Title() string {
	c, ok := typeColors[t.event.Type]
	if !ok {
		c = color.White
	}

	return fmt.Sprintf(
		"%3d  %s  %s",
		t.index+1,
		style.Fg(c)(fmt.Sprintf("%-16s", t.event.Type)),
		style.Faint(fmt.Sprintf("@ %.2fs", t.event.Data.CurrentTime)),
	)
}

// Description shows the type specific extension, or the playback flags
// for events that have none.
func (t *listItem) Description() string {
	d := t.event.Data

	switch {
	case d.SeekInfo != nil:
		return fmt.Sprintf("%.2fs → %.2fs", d.FromTime, d.ToTime)
	case d.QualityChange != nil:
		return fmt.Sprintf("%s → %s", quality(d.PreviousQuality), quality(d.CurrentQuality))
	case d.BufferInfo != nil:
		return fmt.Sprintf("buffered %.2fs (%.2fs - %.2fs)", d.BufferLength, d.BufferStart, d.BufferEnd)
	case d.ErrorInfo != nil:
		return style.Fg(style.Red)(fmt.Sprintf("%d %s: %s", d.ErrorCode, d.ErrorType, d.ErrorMessage))
	case d.ProgressInfo != nil:
		return fmt.Sprintf("%.1f%% complete", d.PercentComplete)
	}

	var flags []string
	for name, on := range map[string]bool{
		"paused":     d.Paused,
		"seeking":    d.Seeking,
		"buffering":  d.Buffering,
		"muted":      d.Muted,
		"fullscreen": d.Fullscreen,
	} {
		if on {
			flags = append(flags, name)
		}
	}

	if len(flags) == 0 {
		return fmt.Sprintf("volume %.0f%%", d.Volume*100)
	}

	slices.Sort(flags)
	return strings.Join(flags, " • ")
}

func quality(q *player.Quality) string {
	if q == nil {
		return "none"
	}

	label := fmt.Sprintf("%dx%d", q.Width, q.Height)
	if q.Level != "" {
		label += " " + q.Level
	}
	return label
}
