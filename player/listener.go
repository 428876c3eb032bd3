package player

import "sync"

// Native event names the tracker subscribes to. Adapters for players with a
// different taxonomy translate into these names.
const (
	EventPlay           = "play"
	EventPause          = "pause"
	EventSeeking        = "seeking"
	EventSeeked         = "seeked"
	EventWaiting        = "waiting"
	EventCanPlay        = "canplay"
	EventVolumeChange   = "volumechange"
	EventError          = "error"
	EventEnded          = "ended"
	EventDurationChange = "durationchange"
	EventTimeUpdate     = "timeupdate"
	EventFullscreen     = "fullscreenchange"
)

// MediaError mirrors the error object a media element exposes.
type MediaError struct {
	Code    int
	Message string
}

// NativeEvent is what a player delivers to its listeners.
type NativeEvent struct {
	// Type is the native event name. It may be empty.
	Type string

	// Error is set for error notifications when the player exposes one.
	Error *MediaError
}

// Listener is a subscription handle. Pointer identity is used for removal.
type Listener struct {
	fn func(NativeEvent)
}

// NewListener wraps fn into a handle usable with AddEventListener.
func NewListener(fn func(NativeEvent)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the wrapped function. A nil listener is a no-op.
func (l *Listener) Handle(e NativeEvent) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(e)
}

// EventTarget is anything listeners can be attached to.
type EventTarget interface {
	AddEventListener(name string, l *Listener)
	RemoveEventListener(name string, l *Listener)
}

// Emitter is a concurrency-safe EventTarget that hosts and simulated players
// embed to deliver native events.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]*Listener
}

// AddEventListener registers l for name. Registering the same handle twice is a no-op.
func (e *Emitter) AddEventListener(name string, l *Listener) {
	if l == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	for _, existing := range e.listeners[name] {
		if existing == l {
			return
		}
	}
	e.listeners[name] = append(e.listeners[name], l)
}

// RemoveEventListener unregisters l for name.
func (e *Emitter) RemoveEventListener(name string, l *Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.listeners[name]
	for i, existing := range list {
		if existing == l {
			e.listeners[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}

// Emit delivers ev to every listener registered for name, in registration order.
// Listeners run on the caller's goroutine without the emitter lock held.
func (e *Emitter) Emit(name string, ev NativeEvent) {
	if ev.Type == "" {
		ev.Type = name
	}

	e.mu.Lock()
	list := append([]*Listener(nil), e.listeners[name]...)
	e.mu.Unlock()

	for _, l := range list {
		l.Handle(ev)
	}
}

// ListenerCount returns the number of listeners registered for name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}
