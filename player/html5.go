package player

// ReadyState mirrors HTMLMediaElement.readyState.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

// TimeRanges mirrors the buffered ranges object of a media element.
type TimeRanges interface {
	Len() int
	Start(i int) float64
	End(i int) float64
}

// VideoTrack is one entry of a media element's video track list.
type VideoTrack struct {
	Label string
}

// VideoElement is the synchronous property surface of a raw video element.
type VideoElement interface {
	EventTarget

	CurrentTime() float64
	Duration() float64
	Volume() float64
	Muted() bool
	Paused() bool
	Seeking() bool
	ReadyState() ReadyState
	CurrentSrc() string
	Src() string
	VideoWidth() int
	VideoHeight() int
	Buffered() TimeRanges
}

// VideoTrackLister is implemented by elements that expose a video track list.
type VideoTrackLister interface {
	VideoTracks() []VideoTrack
}

// HTML5 adapts a raw video element. Every getter is a direct property read.
type HTML5 struct {
	element  VideoElement
	document Document
}

// NewHTML5 wraps el. doc is the page holding the element; it may be nil, in
// which case the element is never reported as fullscreen.
func NewHTML5(el VideoElement, doc Document) *HTML5 {
	return &HTML5{element: el, document: doc}
}

func (h *HTML5) Kind() Kind { return KindHTML5 }

// Element returns the wrapped element.
func (h *HTML5) Element() VideoElement { return h.element }

// Document returns the page the element lives in.
func (h *HTML5) Document() Document { return h.document }

func (h *HTML5) CurrentTime() float64 {
	return safe(0, func() float64 { return finite(h.element.CurrentTime()) })
}

func (h *HTML5) Duration() float64 {
	return safe(0, func() float64 { return finite(h.element.Duration()) })
}

func (h *HTML5) Volume() float64 {
	return safe(0, func() float64 { return clamp01(h.element.Volume()) })
}

func (h *HTML5) Muted() bool {
	return safe(false, func() bool { return h.element.Muted() })
}

func (h *HTML5) Paused() bool {
	return safe(false, func() bool { return h.element.Paused() })
}

func (h *HTML5) Seeking() bool {
	return safe(false, func() bool { return h.element.Seeking() })
}

// Buffering reports whether playback is stalled waiting for data.
func (h *HTML5) Buffering() bool {
	return safe(false, func() bool {
		return h.element.ReadyState() < HaveFutureData && !h.element.Paused()
	})
}

// Fullscreen reports whether the element is the document's fullscreen element
// under any vendor prefix.
func (h *HTML5) Fullscreen() bool {
	if h.document == nil || h.element == nil {
		return false
	}

	for _, prop := range FullscreenElementProperties {
		held := safe(false, func() bool {
			el := h.document.FullscreenElement(prop)
			return el != nil && el == any(h.element)
		})
		if held {
			return true
		}
	}
	return false
}

func (h *HTML5) VideoSrc() string {
	return safe("", func() string {
		if src := h.element.CurrentSrc(); src != "" {
			return src
		}
		return h.element.Src()
	})
}

// Quality prefers the first video track's label and falls back to the raw
// pixel dimensions. Bitrate is never available for a raw element.
func (h *HTML5) Quality() *Quality {
	return safe(nil, func() *Quality {
		if lister, ok := h.element.(VideoTrackLister); ok {
			if tracks := lister.VideoTracks(); len(tracks) > 0 {
				return &Quality{
					Width:  h.element.VideoWidth(),
					Height: h.element.VideoHeight(),
					Level:  labelOr(tracks[0].Label, "auto"),
				}
			}
		}
		return dimensionQuality(h.element.VideoWidth(), h.element.VideoHeight())
	})
}

func (h *HTML5) AddEventListener(name string, l *Listener) {
	try(func() { h.element.AddEventListener(name, l) })
}

func (h *HTML5) RemoveEventListener(name string, l *Listener) {
	try(func() { h.element.RemoveEventListener(name, l) })
}

// BufferedRanges lists every buffered interval of the element.
func (h *HTML5) BufferedRanges() []TimeRange {
	return safe(nil, func() []TimeRange {
		buffered := h.element.Buffered()
		if buffered == nil {
			return nil
		}

		ranges := make([]TimeRange, 0, buffered.Len())
		for i := 0; i < buffered.Len(); i++ {
			ranges = append(ranges, TimeRange{Start: buffered.Start(i), End: buffered.End(i)})
		}
		return ranges
	})
}

// CurrentBufferInfo returns the buffered range containing the playhead, or a
// zero value when the playhead is outside every range.
func (h *HTML5) CurrentBufferInfo() BufferInfo {
	now := h.CurrentTime()
	for _, r := range h.BufferedRanges() {
		if now >= r.Start && now <= r.End {
			return BufferInfo{Start: r.Start, End: r.End, Length: r.End - r.Start}
		}
	}
	return BufferInfo{}
}
