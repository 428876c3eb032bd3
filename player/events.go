package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/samber/lo"
	"github.com/vidtrack/vidtrack/log"
)

// observedProperties are the mpv properties whose changes are translated
// into native events.
var observedProperties = []string{
	"pause",
	"seeking",
	"paused-for-cache",
	"eof-reached",
	"volume",
	"mute",
	"duration",
	"fullscreen",
	"time-pos",
}

// Observer keeps a persistent IPC connection open, observes mpv properties
// and forwards translated events to an emitter.
type Observer struct {
	socketPath string
	emitter    *Emitter
	onClose    func()

	mu        sync.Mutex
	conn      net.Conn
	listening bool
}

// NewObserver prepares an observer for the given socket. onClose runs once
// when the connection ends, for whatever reason.
func NewObserver(socketPath string, emitter *Emitter, onClose func()) *Observer {
	return &Observer{
		socketPath: socketPath,
		emitter:    emitter,
		onClose:    onClose,
	}
}

// Start subscribes to property changes and starts the read loop.
// Observations are per client in mpv, so they are sent on the same
// connection the loop reads from.
func (o *Observer) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.listening {
		return nil
	}

	conn, err := net.Dial("unix", o.socketPath)
	if err != nil {
		return fmt.Errorf("observer connect: %w", err)
	}

	for i, name := range observedProperties {
		if err := writeCommand(conn, requestIDs.Add(1), []any{"observe_property", i + 1, name}); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	o.conn = conn
	o.listening = true
	go o.readLoop(conn)

	log.Infof("mpv observer started on %s", o.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.listening {
		return
	}

	_ = o.conn.Close()
	o.listening = false
}

func (o *Observer) readLoop(conn net.Conn) {
	defer func() {
		o.mu.Lock()
		o.listening = false
		o.mu.Unlock()

		if o.onClose != nil {
			o.onClose()
		}
	}()

	state := newPropertyState()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		for _, ev := range state.translate(msg) {
			o.emitter.Emit(ev.Type, ev)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("mpv observer read error: %v", err)
	}
}

// toggleEvents maps boolean properties to the events fired when they turn
// on and off. An empty name means the transition is not reported.
var toggleEvents = map[string][2]string{
	"pause":            {EventPause, EventPlay},
	"seeking":          {EventSeeking, EventSeeked},
	"paused-for-cache": {EventWaiting, EventCanPlay},
	"eof-reached":      {EventEnded, ""},
}

// changeEvents maps valued properties to the event fired on any change.
var changeEvents = map[string]string{
	"volume":     EventVolumeChange,
	"mute":       EventVolumeChange,
	"duration":   EventDurationChange,
	"fullscreen": EventFullscreen,
	"time-pos":   EventTimeUpdate,
}

// propertyState remembers the last value of every observed property so
// that only real transitions become events.
type propertyState struct {
	last map[string]any
}

func newPropertyState() *propertyState {
	return &propertyState{last: make(map[string]any)}
}

// translate maps one mpv message to zero or more native events. The first
// value reported for a property is recorded without emitting.
func (s *propertyState) translate(msg ipcMessage) []NativeEvent {
	switch msg.Event {
	case "property-change":
	case "end-file":
		if msg.Reason == "error" {
			return []NativeEvent{{
				Type:  EventError,
				Error: &MediaError{Code: 4, Message: msg.FileError},
			}}
		}
		return nil
	default:
		return nil
	}

	prev, seen := s.last[msg.Name]
	s.last[msg.Name] = msg.Data
	if !seen || prev == msg.Data {
		return nil
	}

	if name, ok := toggleEvents[msg.Name]; ok {
		on, isBool := msg.Data.(bool)
		if !isBool || (name[1] == "" && !on) {
			return nil
		}
		return []NativeEvent{{Type: lo.Ternary(on, name[0], name[1])}}
	}

	if name, ok := changeEvents[msg.Name]; ok {
		return []NativeEvent{{Type: name}}
	}
	return nil
}
