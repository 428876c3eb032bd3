// Package event defines the canonical playback event model shared by the
// tracker, the analytics aggregator and every sink.
package event

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vidtrack/vidtrack/player"
)

// Type is the canonical event type. Values are stable on the wire.
type Type string

const (
	Play             Type = "play"
	Pause            Type = "pause"
	Seek             Type = "seek"
	BufferStart      Type = "bufferstart"
	BufferEnd        Type = "bufferend"
	QualityChanged   Type = "qualitychange"
	VolumeChange     Type = "volumechange"
	FullscreenChange Type = "fullscreenchange"
	Error            Type = "error"
	Ended            Type = "ended"
	Progress         Type = "progress"
	DurationChange   Type = "durationchange"
)

var types = []Type{
	Play, Pause, Seek, BufferStart, BufferEnd, QualityChanged,
	VolumeChange, FullscreenChange, Error, Ended, Progress, DurationChange,
}

// Types lists every canonical type.
func Types() []Type {
	return append([]Type(nil), types...)
}

// ParseType validates a wire value.
func ParseType(s string) (Type, error) {
	if t := Type(s); lo.Contains(types, t) {
		return t, nil
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

func (t Type) String() string { return string(t) }

// Base is the playback snapshot every event carries.
type Base struct {
	// Timestamp is in milliseconds since the Unix epoch.
	Timestamp   int64   `json:"timestamp"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Volume      float64 `json:"volume"`
	Muted       bool    `json:"muted"`
	Paused      bool    `json:"paused"`
	Seeking     bool    `json:"seeking"`
	Buffering   bool    `json:"buffering"`
	Fullscreen  bool    `json:"fullscreen"`
	VideoSrc    string  `json:"videoSrc"`
	SessionID   string  `json:"sessionId"`
}

// SeekInfo extends seek events.
type SeekInfo struct {
	FromTime float64 `json:"fromTime"`
	ToTime   float64 `json:"toTime"`
}

// QualityChange extends qualitychange events.
type QualityChange struct {
	PreviousQuality *player.Quality `json:"previousQuality"`
	CurrentQuality  *player.Quality `json:"currentQuality"`
}

// BufferInfo extends bufferstart and bufferend events. It is zero filled
// when the adapter cannot report buffered ranges.
type BufferInfo struct {
	BufferLength float64 `json:"bufferLength"`
	BufferStart  float64 `json:"bufferStart"`
	BufferEnd    float64 `json:"bufferEnd"`
}

// ErrorInfo extends error events. Code 0 means unknown.
type ErrorInfo struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

// ProgressInfo extends progress events.
type ProgressInfo struct {
	PercentComplete float64 `json:"percentComplete"`
	BytesLoaded     int64   `json:"bytesLoaded"`
	BytesTotal      int64   `json:"bytesTotal"`
}

// Data is the payload of an event: the snapshot, at most one type-specific
// extension and any caller metadata.
type Data struct {
	Base

	*SeekInfo
	*QualityChange
	*BufferInfo
	*ErrorInfo
	*ProgressInfo

	// Extra holds metadata and custom keys. On the wire they sit next to
	// the fixed fields and never replace them.
	Extra map[string]any `json:"-"`
}

// VideoEvent is one emission of the tracker.
type VideoEvent struct {
	Type Type `json:"type"`
	Data Data `json:"data"`
}

// Sink receives every event. It is called synchronously.
type Sink func(VideoEvent)

// Noop discards events.
func Noop(VideoEvent) {}
