// Package player defines a unified abstraction layer over heterogeneous video players.
// Each vendor player is wrapped by one adapter variant that exposes the same read-only
// capability set and a native event subscription primitive.
package player

// Kind identifies the vendor player an adapter wraps.
type Kind string

const (
	KindHTML5    Kind = "html5"
	KindVideoJS  Kind = "videojs"
	KindJWPlayer Kind = "jwplayer"
	KindPlyr     Kind = "plyr"
	KindVimeo    Kind = "vimeo"
	KindYouTube  Kind = "youtube"
	KindMPV      Kind = "mpv"
)

// Adapter encapsulates the capabilities the tracker reads from a player.
//
// Getters must never panic or block indefinitely. A capability the underlying
// player cannot provide degrades to the zero value (nil for Quality).
type Adapter interface {
	// Kind reports which vendor player is wrapped.
	Kind() Kind

	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64

	// Duration returns the media length in seconds, 0 when unknown.
	Duration() float64

	// Volume returns the output volume in [0,1].
	Volume() float64

	Muted() bool
	Paused() bool
	Seeking() bool
	Buffering() bool
	Fullscreen() bool

	// VideoSrc returns the current media URL, empty when unknown.
	VideoSrc() string

	// Quality returns the active rendition, nil when unknown.
	Quality() *Quality

	// AddEventListener subscribes l to a native, player-specific event name.
	AddEventListener(name string, l *Listener)

	// RemoveEventListener removes a subscription made with AddEventListener.
	RemoveEventListener(name string, l *Listener)
}

// BufferInfo describes the buffered range around the playhead.
type BufferInfo struct {
	Start  float64
	End    float64
	Length float64
}

// TimeRange is one contiguous buffered interval in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// BufferReporter is implemented by adapters that can introspect buffered ranges.
type BufferReporter interface {
	CurrentBufferInfo() BufferInfo
	BufferedRanges() []TimeRange
}

// DocumentBound is implemented by adapters whose target is a raw element living
// in a document that owns the fullscreen state.
type DocumentBound interface {
	Document() Document
}

// Document is the host page that reports fullscreen state and delivers
// document-level events.
type Document interface {
	EventTarget

	// FullscreenElement returns the element held by the named fullscreen
	// property (one of FullscreenElementProperties), or nil.
	FullscreenElement(property string) any
}

// FullscreenElementProperties lists the vendor-prefixed document properties
// that may hold the active fullscreen element.
var FullscreenElementProperties = []string{
	"fullscreenElement",
	"webkitFullscreenElement",
	"mozFullScreenElement",
	"msFullscreenElement",
}

// FullscreenChangeEvents lists the vendor-prefixed document events fired when
// the fullscreen element changes.
var FullscreenChangeEvents = []string{
	"fullscreenchange",
	"webkitfullscreenchange",
	"mozfullscreenchange",
	"MSFullscreenChange",
}
