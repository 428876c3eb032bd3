package player

import "context"

type fakeRanges []TimeRange

func (r fakeRanges) Len() int            { return len(r) }
func (r fakeRanges) Start(i int) float64 { return r[i].Start }
func (r fakeRanges) End(i int) float64   { return r[i].End }

type fakeElement struct {
	Emitter

	currentTime, duration, volume float64
	muted, paused, seeking        bool
	readyState                    ReadyState
	currentSrc, src               string
	width, height                 int
	buffered                      fakeRanges
}

func (e *fakeElement) CurrentTime() float64              { return e.currentTime }
func (e *fakeElement) Duration() float64                 { return e.duration }
func (e *fakeElement) Volume() float64                   { return e.volume }
func (e *fakeElement) Muted() bool                       { return e.muted }
func (e *fakeElement) Paused() bool                      { return e.paused }
func (e *fakeElement) Seeking() bool                     { return e.seeking }
func (e *fakeElement) ReadyState() ReadyState            { return e.readyState }
func (e *fakeElement) CurrentSrc() string                { return e.currentSrc }
func (e *fakeElement) Src() string                       { return e.src }
func (e *fakeElement) VideoWidth() int                   { return e.width }
func (e *fakeElement) VideoHeight() int                  { return e.height }
func (e *fakeElement) Buffered() TimeRanges              { return e.buffered }
func (e *fakeElement) QuerySelector(string) VideoElement { return e }

type trackedElement struct {
	*fakeElement
	tracks []VideoTrack
}

func (e trackedElement) VideoTracks() []VideoTrack { return e.tracks }

// brokenElement has no working methods: every call panics.
type brokenElement struct{ VideoElement }

type fakeDocument struct {
	Emitter
	fullscreen map[string]any
}

func (d *fakeDocument) FullscreenElement(property string) any {
	if el, ok := d.fullscreen[property]; ok {
		return el
	}
	return nil
}

type fakeVideoJS struct {
	Emitter
	inner      *fakeElement
	fullscreen bool
	levels     []QualityLevel
}

func (p *fakeVideoJS) CurrentTime() float64 { return p.inner.currentTime }
func (p *fakeVideoJS) Duration() float64    { return p.inner.duration }
func (p *fakeVideoJS) Volume() float64      { return p.inner.volume }
func (p *fakeVideoJS) Muted() bool          { return p.inner.muted }
func (p *fakeVideoJS) Paused() bool         { return p.inner.paused }
func (p *fakeVideoJS) IsFullscreen() bool   { return p.fullscreen }
func (p *fakeVideoJS) CurrentSrc() string   { return p.inner.currentSrc }
func (p *fakeVideoJS) Src() string          { return p.inner.src }
func (p *fakeVideoJS) El() Root {
	if p.inner == nil {
		return emptyRoot{}
	}
	return p.inner
}
func (p *fakeVideoJS) On(name string, l *Listener)  { p.AddEventListener(name, l) }
func (p *fakeVideoJS) Off(name string, l *Listener) { p.RemoveEventListener(name, l) }

type emptyRoot struct{}

func (emptyRoot) QuerySelector(string) VideoElement { return nil }

type leveledVideoJS struct{ *fakeVideoJS }

func (p leveledVideoJS) QualityLevels() []QualityLevel { return p.levels }

type brokenVideoJS struct{ VideoJSPlayer }

type fakeJW struct {
	Emitter
	position, duration, volume float64
	mute, fullscreen           bool
	state                      JWState
	item                       *JWPlaylistItem
	levels                     []JWQualityLevel
	current                    int
}

func (p *fakeJW) GetPosition() float64               { return p.position }
func (p *fakeJW) GetDuration() float64               { return p.duration }
func (p *fakeJW) GetVolume() float64                 { return p.volume }
func (p *fakeJW) GetMute() bool                      { return p.mute }
func (p *fakeJW) GetState() JWState                  { return p.state }
func (p *fakeJW) GetFullscreen() bool                { return p.fullscreen }
func (p *fakeJW) GetPlaylistItem() *JWPlaylistItem   { return p.item }
func (p *fakeJW) GetQualityLevels() []JWQualityLevel { return p.levels }
func (p *fakeJW) GetCurrentQuality() int             { return p.current }
func (p *fakeJW) On(name string, l *Listener)        { p.AddEventListener(name, l) }
func (p *fakeJW) Off(name string, l *Listener)       { p.RemoveEventListener(name, l) }

type brokenJW struct{ JWPlayerAPI }

type fakeMedia struct{ width, height int }

func (m fakeMedia) VideoWidth() int  { return m.width }
func (m fakeMedia) VideoHeight() int { return m.height }

type fakePlyr struct {
	Emitter
	currentTime, duration, volume     float64
	muted, paused, seeking, buffering bool
	fullscreen                        *PlyrFullscreen
	source                            *PlyrSource
	quality                           int
	media                             PlyrMedia
}

func (p *fakePlyr) CurrentTime() float64         { return p.currentTime }
func (p *fakePlyr) Duration() float64            { return p.duration }
func (p *fakePlyr) Volume() float64              { return p.volume }
func (p *fakePlyr) Muted() bool                  { return p.muted }
func (p *fakePlyr) Paused() bool                 { return p.paused }
func (p *fakePlyr) Seeking() bool                { return p.seeking }
func (p *fakePlyr) Buffering() bool              { return p.buffering }
func (p *fakePlyr) Fullscreen() *PlyrFullscreen  { return p.fullscreen }
func (p *fakePlyr) Source() *PlyrSource          { return p.source }
func (p *fakePlyr) Quality() int                 { return p.quality }
func (p *fakePlyr) Media() PlyrMedia             { return p.media }
func (p *fakePlyr) On(name string, l *Listener)  { p.AddEventListener(name, l) }
func (p *fakePlyr) Off(name string, l *Listener) { p.RemoveEventListener(name, l) }

type brokenPlyr struct{ PlyrPlayer }

type fakeYouTube struct {
	Emitter
	currentTime, duration, volume float64
	muted                         bool
	state                         YouTubeState
	url, quality                  string
}

func (p *fakeYouTube) GetCurrentTime() float64      { return p.currentTime }
func (p *fakeYouTube) GetDuration() float64         { return p.duration }
func (p *fakeYouTube) GetVolume() float64           { return p.volume }
func (p *fakeYouTube) IsMuted() bool                { return p.muted }
func (p *fakeYouTube) GetPlayerState() YouTubeState { return p.state }
func (p *fakeYouTube) GetVideoURL() string          { return p.url }
func (p *fakeYouTube) GetPlaybackQuality() string   { return p.quality }

type brokenYouTube struct{ YouTubePlayer }

type fakeVimeo struct {
	Emitter
	currentTime, duration, volume float64
	muted, paused, fullscreen     bool
	url, quality                  string
	err                           error
}

func (p *fakeVimeo) GetCurrentTime(context.Context) (float64, error) { return p.currentTime, p.err }
func (p *fakeVimeo) GetDuration(context.Context) (float64, error)    { return p.duration, p.err }
func (p *fakeVimeo) GetVolume(context.Context) (float64, error)      { return p.volume, p.err }
func (p *fakeVimeo) GetMuted(context.Context) (bool, error)          { return p.muted, p.err }
func (p *fakeVimeo) GetPaused(context.Context) (bool, error)         { return p.paused, p.err }
func (p *fakeVimeo) GetFullscreen(context.Context) (bool, error)     { return p.fullscreen, p.err }
func (p *fakeVimeo) GetVideoURL(context.Context) (string, error)     { return p.url, p.err }
func (p *fakeVimeo) GetVideoQuality(context.Context) (string, error) { return p.quality, p.err }
func (p *fakeVimeo) On(name string, l *Listener)                     { p.AddEventListener(name, l) }
func (p *fakeVimeo) Off(name string, l *Listener)                    { p.RemoveEventListener(name, l) }
