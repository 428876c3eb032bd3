package sim

import "github.com/vidtrack/vidtrack/player"

// Element looks like a raw video element.
type Element struct {
	state *State
}

func (e *Element) AddEventListener(name string, l *player.Listener)    { e.state.On(name, l) }
func (e *Element) RemoveEventListener(name string, l *player.Listener) { e.state.Off(name, l) }

func (e *Element) CurrentTime() float64 { return e.state.Read().Position }
func (e *Element) Duration() float64    { return e.state.Read().Duration }
func (e *Element) Volume() float64      { return e.state.Read().Volume }
func (e *Element) Muted() bool          { return e.state.Read().Muted }
func (e *Element) Paused() bool         { return e.state.Read().Paused }
func (e *Element) Seeking() bool        { return e.state.Read().Seeking }
func (e *Element) CurrentSrc() string   { return e.state.Read().Src }
func (e *Element) Src() string          { return e.state.Read().Src }

func (e *Element) ReadyState() player.ReadyState {
	snap := e.state.Read()
	switch {
	case snap.Src == "":
		return player.HaveNothing
	case snap.Stalled || snap.Seeking:
		return player.HaveCurrentData
	default:
		return player.HaveEnoughData
	}
}

func (e *Element) VideoWidth() int {
	if q := e.state.Read().Quality; q != nil {
		return q.Width
	}
	return 0
}

func (e *Element) VideoHeight() int {
	if q := e.state.Read().Quality; q != nil {
		return q.Height
	}
	return 0
}

func (e *Element) Buffered() player.TimeRanges {
	return ranges(e.state.Read().Buffered)
}

// VideoTracks reports one track labelled with the current quality level.
func (e *Element) VideoTracks() []player.VideoTrack {
	q := e.state.Read().Quality
	if q == nil || q.Level == "" {
		return nil
	}
	return []player.VideoTrack{{Label: q.Level}}
}

// QuerySelector finds the element itself for "video" and nothing else.
func (e *Element) QuerySelector(selector string) player.VideoElement {
	if selector != "video" {
		return nil
	}
	return e
}

type ranges []player.TimeRange

func (r ranges) Len() int            { return len(r) }
func (r ranges) Start(i int) float64 { return r[i].Start }
func (r ranges) End(i int) float64   { return r[i].End }

// Document holds the page-level fullscreen state.
type Document struct {
	state  *State
	events player.Emitter
}

func (d *Document) AddEventListener(name string, l *player.Listener) {
	d.events.AddEventListener(name, l)
}

func (d *Document) RemoveEventListener(name string, l *player.Listener) {
	d.events.RemoveEventListener(name, l)
}

// FullscreenElement returns the element under the unprefixed property only,
// like a current browser does.
func (d *Document) FullscreenElement(property string) any {
	if property != player.FullscreenElementProperties[0] || !d.state.Read().Fullscreen {
		return nil
	}
	return d.state.element
}

// ListenerCount exposes how many document listeners are attached for name.
func (d *Document) ListenerCount(name string) int { return d.events.ListenerCount(name) }
