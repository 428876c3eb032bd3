// Package sink provides the destinations a tracker's event stream can be
// fanned out to.
package sink

import (
	"github.com/vidtrack/vidtrack/event"
)

// Multi returns a sink that forwards every event to each of sinks in order.
// Nil sinks are skipped.
func Multi(sinks ...event.Sink) event.Sink {
	var live []event.Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}

	return func(ev event.VideoEvent) {
		for _, s := range live {
			s(ev)
		}
	}
}

// Filter forwards only the events whose type is one of types.
func Filter(next event.Sink, types ...event.Type) event.Sink {
	allowed := make(map[event.Type]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}

	return func(ev event.VideoEvent) {
		if _, ok := allowed[ev.Type]; ok {
			next(ev)
		}
	}
}
