// Package tracker bridges one player adapter's native events and polled
// state into the canonical event stream.
package tracker

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vidtrack/vidtrack/clock"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/log"
	"github.com/vidtrack/vidtrack/player"
)

// Option customizes a tracker at construction.
type Option func(*Tracker)

// WithClock replaces the wall clock, for deterministic replay and tests.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// Tracker observes one adapter. It never creates or destroys the
// underlying player.
//
// Native callbacks and poll ticks may arrive on different goroutines. The
// tracker's own state is guarded, but the sink is always called without
// any tracker lock held.
type Tracker struct {
	adapter player.Adapter
	clock   clock.Clock

	mu          sync.Mutex
	cfg         settings
	handles     map[string]subscription
	cancelPoll  func()
	lastQuality *player.Quality
	seekFrom    float64
	destroyed   bool
}

// New attaches a tracker to adapter. Native listeners are registered when
// AutoTrack is on; polling starts regardless.
func New(adapter player.Adapter, cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		adapter: adapter,
		clock:   clock.Real(),
		handles: make(map[string]subscription),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.cfg = defaults(t.clock.Now()).merge(cfg)

	if t.cfg.autoTrack {
		t.attach()
	}
	t.RestartPolling()

	return t
}

// NewHTML5 wraps a raw video element and tracks it.
func NewHTML5(el player.VideoElement, doc player.Document, cfg Config, opts ...Option) *Tracker {
	return New(player.NewHTML5(el, doc), cfg, opts...)
}

// Adapter returns the observed adapter.
func (t *Tracker) Adapter() player.Adapter {
	return t.adapter
}

// SessionID returns the session id events are stamped with.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg.sessionID
}

// UpdateConfig merges cfg into the active configuration. A new progress
// interval only applies after RestartPolling.
func (t *Tracker) UpdateConfig(cfg Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = t.cfg.merge(cfg)
}

// RestartPolling cancels the poll timer, if any, and starts a new one with
// the configured interval. It does nothing once the tracker is destroyed.
func (t *Tracker) RestartPolling() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}
	if t.cancelPoll != nil {
		t.cancelPoll()
	}
	t.cancelPoll = t.clock.Every(t.cfg.progressInterval, t.poll)
}

// TrackEvent emits typ with a fresh snapshot, custom merged over it.
// Nothing native is involved.
func (t *Tracker) TrackEvent(typ event.Type, custom map[string]any) {
	data := t.snapshot()
	data.ApplyCustom(custom)
	t.emit(typ, data)
}

// Destroy stops polling and removes every native listener. Calling it
// again is a no-op.
func (t *Tracker) Destroy() {
	t.mu.Lock()
	if t.cancelPoll != nil {
		t.cancelPoll()
		t.cancelPoll = nil
	}

	handles := t.handles
	t.handles = make(map[string]subscription)
	t.destroyed = true
	t.mu.Unlock()

	for _, h := range handles {
		h.release()
	}
}

// snapshot reads every capability of the adapter and stamps the result.
// Metadata is merged under the fixed fields.
func (t *Tracker) snapshot() event.Data {
	t.mu.Lock()
	sessionID := t.cfg.sessionID
	metadata := t.cfg.metadata
	t.mu.Unlock()

	a := t.adapter
	data := event.Data{
		Base: event.Base{
			Timestamp:   t.clock.Now().UnixMilli(),
			CurrentTime: a.CurrentTime(),
			Duration:    a.Duration(),
			Volume:      a.Volume(),
			Muted:       a.Muted(),
			Paused:      a.Paused(),
			Seeking:     a.Seeking(),
			Buffering:   a.Buffering(),
			Fullscreen:  a.Fullscreen(),
			VideoSrc:    a.VideoSrc(),
			SessionID:   sessionID,
		},
	}
	data.Merge(metadata)
	return data
}

// emit traces the event when debug is on, then hands it to the sink.
func (t *Tracker) emit(typ event.Type, data event.Data) {
	t.mu.Lock()
	debug := t.cfg.debug
	sink := t.cfg.onEvent
	t.mu.Unlock()

	ev := event.VideoEvent{Type: typ, Data: data}
	if debug {
		trace(ev)
	}
	sink(ev)
}

func trace(ev event.VideoEvent) {
	fields := logrus.Fields{}
	if raw, err := json.Marshal(ev.Data); err == nil {
		_ = json.Unmarshal(raw, &fields)
	}
	fields["type"] = ev.Type

	log.Diagnostic().WithFields(fields).Info("[VideoTracker]")
}
