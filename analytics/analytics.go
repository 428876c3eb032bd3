// Package analytics folds an event stream into per-session summary statistics.
package analytics

import (
	"math"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidtrack/vidtrack/event"
)

// Summary is the result of folding every event added so far.
type Summary struct {
	// TotalPlayTime is in milliseconds. Plays and pauses are paired by
	// their position among events of the same type.
	TotalPlayTime float64 `json:"totalPlayTime"`

	// TotalPauseTime is reserved and always 0.
	TotalPauseTime float64 `json:"totalPauseTime"`

	SeekCount   int `json:"seekCount"`
	BufferCount int `json:"bufferCount"`

	// AverageBufferDuration is the mean of completed buffer windows in
	// milliseconds, 0 when none completed.
	AverageBufferDuration float64 `json:"averageBufferDuration"`

	// CompletionRate is taken from the most recent event only, 0..100.
	CompletionRate float64 `json:"completionRate"`

	// EngagementScore is capped at 100.
	EngagementScore float64 `json:"engagementScore"`

	QualityChanges int `json:"qualityChanges"`
	Errors         int `json:"errors"`
}

// Aggregator retains every event and the open play, pause and buffer windows.
// It is safe to feed from several goroutines, so its AddEvent can be used
// as a sink directly.
type Aggregator struct {
	mu sync.Mutex

	events          []event.VideoEvent
	playStart       mo.Option[int64]
	pauseStart      mo.Option[int64]
	bufferStart     mo.Option[int64]
	bufferDurations []int64
}

// New returns an empty aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// AddEvent appends ev and updates the open windows.
func (a *Aggregator) AddEvent(ev event.VideoEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, ev)

	now := ev.Data.Timestamp
	switch ev.Type {
	case event.Play:
		a.pauseStart = mo.None[int64]()
		a.playStart = mo.Some(now)
	case event.Pause:
		a.playStart = mo.None[int64]()
		a.pauseStart = mo.Some(now)
	case event.BufferStart:
		a.bufferStart = mo.Some(now)
	case event.BufferEnd:
		if start, ok := a.bufferStart.Get(); ok {
			a.bufferDurations = append(a.bufferDurations, now-start)
			a.bufferStart = mo.None[int64]()
		}
	}
}

// Len returns the number of events added since the last reset.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

// Events returns a copy of the retained events.
func (a *Aggregator) Events() []event.VideoEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]event.VideoEvent(nil), a.events...)
}

// Summary recomputes every statistic from the retained events.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	ofType := func(t event.Type) []event.VideoEvent {
		return lo.Filter(a.events, func(ev event.VideoEvent, _ int) bool { return ev.Type == t })
	}

	plays := ofType(event.Play)
	pauses := ofType(event.Pause)

	var playTime float64
	for i := range min(len(plays), len(pauses)) {
		playTime += float64(pauses[i].Data.Timestamp - plays[i].Data.Timestamp)
	}

	var completion float64
	if n := len(a.events); n > 0 {
		if last := a.events[n-1].Data; last.Duration > 0 {
			completion = last.CurrentTime / last.Duration * 100
		}
	}

	var averageBuffer float64
	if len(a.bufferDurations) > 0 {
		averageBuffer = float64(lo.Sum(a.bufferDurations)) / float64(len(a.bufferDurations))
	}

	seeks := len(ofType(event.Seek))

	return Summary{
		TotalPlayTime:         playTime,
		TotalPauseTime:        0,
		SeekCount:             seeks,
		BufferCount:           len(ofType(event.BufferStart)),
		AverageBufferDuration: averageBuffer,
		CompletionRate:        completion,
		EngagementScore:       engagement(playTime, completion, seeks),
		QualityChanges:        len(ofType(event.QualityChanged)),
		Errors:                len(ofType(event.Error)),
	}
}

// engagement awards 10 points per minute played and up to 50 for
// completion, plus 25 minus 2 per seek (never below 0), capped at 100.
func engagement(playTimeMs, completionRate float64, seeks int) float64 {
	watched := playTimeMs / 1000 / 60 * 10
	completed := completionRate / 100 * 50
	seeking := math.Max(0, 25-float64(seeks)*2)
	return math.Min(100, watched+completed+seeking)
}

// Reset drops every event and closes every window.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = nil
	a.playStart = mo.None[int64]()
	a.pauseStart = mo.None[int64]()
	a.bufferStart = mo.None[int64]()
	a.bufferDurations = nil
}

// Open reports which windows are currently open.
func (a *Aggregator) Open() (play, pause, buffer bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playStart.IsPresent(), a.pauseStart.IsPresent(), a.bufferStart.IsPresent()
}
