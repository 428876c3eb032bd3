package tracker

import (
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/player"
)

// subscription is one retained registration, released on Destroy.
type subscription interface {
	release()
}

type adapterSubscription struct {
	adapter  player.Adapter
	name     string
	listener *player.Listener
}

func (s adapterSubscription) release() {
	s.adapter.RemoveEventListener(s.name, s.listener)
}

// documentSubscription is one handler registered for every prefixed
// fullscreen event of a document.
type documentSubscription struct {
	document player.Document
	listener *player.Listener
}

func (s documentSubscription) release() {
	for _, name := range player.FullscreenChangeEvents {
		s.document.RemoveEventListener(name, s.listener)
	}
}

// attach registers one handler per native event the tracker translates.
func (t *Tracker) attach() {
	handlers := map[string]func(player.NativeEvent){
		player.EventPlay:           t.simple(event.Play),
		player.EventPause:          t.simple(event.Pause),
		player.EventSeeking:        t.onSeeking,
		player.EventSeeked:         t.onSeeked,
		player.EventWaiting:        t.buffer(event.BufferStart),
		player.EventCanPlay:        t.buffer(event.BufferEnd),
		player.EventVolumeChange:   t.simple(event.VolumeChange),
		player.EventError:          t.onError,
		player.EventEnded:          t.simple(event.Ended),
		player.EventDurationChange: t.simple(event.DurationChange),
	}

	for name, fn := range handlers {
		l := player.NewListener(fn)
		t.adapter.AddEventListener(name, l)
		t.retain(name, adapterSubscription{adapter: t.adapter, name: name, listener: l})
	}

	if bound, ok := t.adapter.(player.DocumentBound); ok && bound.Document() != nil {
		doc := bound.Document()
		l := player.NewListener(t.simple(event.FullscreenChange))
		for _, name := range player.FullscreenChangeEvents {
			doc.AddEventListener(name, l)
		}
		t.retain(player.EventFullscreen, documentSubscription{document: doc, listener: l})
	}
}

func (t *Tracker) retain(name string, s subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles[name] = s
}

func (t *Tracker) simple(typ event.Type) func(player.NativeEvent) {
	return func(player.NativeEvent) {
		t.emit(typ, t.snapshot())
	}
}

func (t *Tracker) onSeeking(player.NativeEvent) {
	from := t.adapter.CurrentTime()

	t.mu.Lock()
	t.seekFrom = from
	t.mu.Unlock()
}

func (t *Tracker) onSeeked(player.NativeEvent) {
	t.mu.Lock()
	from := t.seekFrom
	t.mu.Unlock()

	data := t.snapshot()
	data.SeekInfo = &event.SeekInfo{FromTime: from, ToTime: t.adapter.CurrentTime()}
	t.emit(event.Seek, data)
}

func (t *Tracker) buffer(typ event.Type) func(player.NativeEvent) {
	return func(player.NativeEvent) {
		data := t.snapshot()
		data.BufferInfo = &event.BufferInfo{}

		if reporter, ok := t.adapter.(player.BufferReporter); ok {
			info := reporter.CurrentBufferInfo()
			data.BufferInfo = &event.BufferInfo{
				BufferLength: info.Length,
				BufferStart:  info.Start,
				BufferEnd:    info.End,
			}
		}

		t.emit(typ, data)
	}
}

func (t *Tracker) onError(e player.NativeEvent) {
	info := &event.ErrorInfo{
		ErrorMessage: "Unknown error",
		ErrorType:    "error",
	}
	if e.Error != nil {
		info.ErrorCode = e.Error.Code
		if e.Error.Message != "" {
			info.ErrorMessage = e.Error.Message
		}
	}
	if e.Type != "" {
		info.ErrorType = e.Type
	}

	data := t.snapshot()
	data.ErrorInfo = info
	t.emit(event.Error, data)
}
