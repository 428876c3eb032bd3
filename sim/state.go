// Package sim provides simulated players. One playback State drives facades
// that look like every supported vendor API, so trackers can be exercised
// without a browser.
package sim

import (
	"math"
	"sync"
	"time"

	"github.com/vidtrack/vidtrack/clock"
	"github.com/vidtrack/vidtrack/player"
)

// State is the playback model shared by every facade. The position advances
// with the clock while playing, not stalled and not seeking.
type State struct {
	clock  clock.Clock
	events  player.Emitter
	doc     *Document
	element *Element

	mu         sync.Mutex
	src        string
	duration   float64
	position   float64
	since      time.Time
	paused     bool
	stalled    bool
	seeking    bool
	ended      bool
	volume     float64
	muted      bool
	fullscreen bool
	quality    *player.Quality
	buffered   []player.TimeRange
}

// New returns a paused, empty player driven by c.
func New(c clock.Clock) *State {
	s := &State{
		clock:  c,
		paused: true,
		volume: 1,
	}
	s.doc = &Document{state: s}
	s.element = &Element{state: s}
	return s
}

// Document returns the page the simulated element lives in.
func (s *State) Document() *Document { return s.doc }

// Element returns the simulated video element.
func (s *State) Element() *Element { return s.element }

// settle folds elapsed playback into position. Callers hold mu.
func (s *State) settle() {
	now := s.clock.Now()
	if s.advancing() {
		elapsed := now.Sub(s.since).Seconds()
		s.position = math.Min(s.position+elapsed, s.duration)
	}
	s.since = now
}

func (s *State) advancing() bool {
	return !s.paused && !s.stalled && !s.seeking && !s.ended
}

// change applies fn under the lock, then emits names in order.
func (s *State) change(fn func(), names ...string) {
	s.mu.Lock()
	s.settle()
	fn()
	s.mu.Unlock()

	for _, name := range names {
		s.events.Emit(name, player.NativeEvent{})
	}
}

// Load sets a new source. Playback stops at position 0.
func (s *State) Load(src string, duration float64) {
	s.change(func() {
		s.src = src
		s.duration = duration
		s.position = 0
		s.paused = true
		s.ended = false
		s.buffered = []player.TimeRange{{Start: 0, End: duration}}
	}, player.EventDurationChange)
}

// SetDuration changes the media length, for live streams growing.
func (s *State) SetDuration(duration float64) {
	s.change(func() { s.duration = duration }, player.EventDurationChange)
}

func (s *State) Play() {
	s.change(func() {
		if s.ended {
			s.position = 0
			s.ended = false
		}
		s.paused = false
	}, player.EventPlay)
}

func (s *State) Pause() {
	s.change(func() { s.paused = true }, player.EventPause)
}

// Seek jumps to position to, firing seeking then seeked.
func (s *State) Seek(to float64) {
	s.change(func() { s.seeking = true }, player.EventSeeking)
	s.change(func() {
		s.position = math.Max(0, math.Min(to, s.duration))
		s.seeking = false
		s.ended = false
	}, player.EventSeeked)
}

// Stall starts waiting for data.
func (s *State) Stall() {
	s.change(func() { s.stalled = true }, player.EventWaiting)
}

// Resume ends a stall.
func (s *State) Resume() {
	s.change(func() { s.stalled = false }, player.EventCanPlay)
}

// SetVolume sets the volume in [0,1].
func (s *State) SetVolume(v float64) {
	s.change(func() { s.volume = math.Max(0, math.Min(1, v)) }, player.EventVolumeChange)
}

func (s *State) SetMuted(muted bool) {
	s.change(func() { s.muted = muted }, player.EventVolumeChange)
}

// SetFullscreen toggles fullscreen. The player and the document both
// announce it.
func (s *State) SetFullscreen(on bool) {
	s.change(func() { s.fullscreen = on }, player.EventFullscreen)
	s.doc.events.Emit(player.FullscreenChangeEvents[0], player.NativeEvent{})
}

// SetQuality switches rendition silently, like adaptive streaming does.
func (s *State) SetQuality(q player.Quality) {
	s.change(func() { s.quality = &q })
}

// SetBuffered replaces the buffered ranges.
func (s *State) SetBuffered(ranges []player.TimeRange) {
	s.change(func() { s.buffered = append([]player.TimeRange(nil), ranges...) })
}

// Fail reports a media error.
func (s *State) Fail(code int, message string) {
	s.mu.Lock()
	s.settle()
	s.paused = true
	s.mu.Unlock()

	s.events.Emit(player.EventError, player.NativeEvent{
		Error: &player.MediaError{Code: code, Message: message},
	})
}

// End jumps to the end of the media.
func (s *State) End() {
	s.change(func() {
		s.position = s.duration
		s.ended = true
		s.paused = true
	}, player.EventPause, player.EventEnded)
}

// Tick announces the current position and ends playback once the position
// reaches the duration.
func (s *State) Tick() {
	s.mu.Lock()
	s.settle()
	finished := !s.ended && s.duration > 0 && s.position >= s.duration
	s.mu.Unlock()

	s.events.Emit(player.EventTimeUpdate, player.NativeEvent{})
	if finished {
		s.End()
	}
}

// Snapshot is a consistent read of the state.
type Snapshot struct {
	Src        string
	Duration   float64
	Position   float64
	Paused     bool
	Stalled    bool
	Seeking    bool
	Ended      bool
	Volume     float64
	Muted      bool
	Fullscreen bool
	Quality    *player.Quality
	Buffered   []player.TimeRange
}

// Read returns the state at the current clock time.
func (s *State) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settle()
	snap := Snapshot{
		Src:        s.src,
		Duration:   s.duration,
		Position:   s.position,
		Paused:     s.paused,
		Stalled:    s.stalled,
		Seeking:    s.seeking,
		Ended:      s.ended,
		Volume:     s.volume,
		Muted:      s.muted,
		Fullscreen: s.fullscreen,
		Buffered:   append([]player.TimeRange(nil), s.buffered...),
	}
	if s.quality != nil {
		q := *s.quality
		snap.Quality = &q
	}
	return snap
}

// On and Off subscribe to the native events every facade shares.
func (s *State) On(name string, l *player.Listener)  { s.events.AddEventListener(name, l) }
func (s *State) Off(name string, l *player.Listener) { s.events.RemoveEventListener(name, l) }

// ListenerCount exposes how many native listeners are attached for name.
func (s *State) ListenerCount(name string) int { return s.events.ListenerCount(name) }
