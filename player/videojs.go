package player

// Root is the DOM subtree a library player renders into.
type Root interface {
	QuerySelector(selector string) VideoElement
}

// VideoJSPlayer is the method-call surface of a Video.js player.
type VideoJSPlayer interface {
	CurrentTime() float64
	Duration() float64
	Volume() float64
	Muted() bool
	Paused() bool
	IsFullscreen() bool
	CurrentSrc() string
	Src() string
	El() Root
	On(name string, l *Listener)
	Off(name string, l *Listener)
}

// QualityLevel is one rendition reported by a quality-levels plugin.
type QualityLevel struct {
	Width   int
	Height  int
	Bitrate int
	Label   string
}

// QualityLevelsPlugin is implemented by Video.js players with the
// quality-levels plugin installed.
type QualityLevelsPlugin interface {
	QualityLevels() []QualityLevel
}

// VideoJS adapts a Video.js player. Seeking and buffering are read from the
// inner video element, located once at construction.
type VideoJS struct {
	player VideoJSPlayer
	video  VideoElement
}

func NewVideoJS(p VideoJSPlayer) *VideoJS {
	v := &VideoJS{player: p}
	v.video = safe[VideoElement](nil, func() VideoElement {
		return p.El().QuerySelector("video")
	})
	return v
}

func (v *VideoJS) Kind() Kind { return KindVideoJS }

// Player returns the wrapped Video.js player.
func (v *VideoJS) Player() VideoJSPlayer { return v.player }

func (v *VideoJS) CurrentTime() float64 {
	return safe(0, func() float64 { return finite(v.player.CurrentTime()) })
}

func (v *VideoJS) Duration() float64 {
	return safe(0, func() float64 { return finite(v.player.Duration()) })
}

func (v *VideoJS) Volume() float64 {
	return safe(0, func() float64 { return clamp01(v.player.Volume()) })
}

func (v *VideoJS) Muted() bool {
	return safe(false, func() bool { return v.player.Muted() })
}

func (v *VideoJS) Paused() bool {
	return safe(false, func() bool { return v.player.Paused() })
}

func (v *VideoJS) Seeking() bool {
	if v.video == nil {
		return false
	}
	return safe(false, func() bool { return v.video.Seeking() })
}

// Buffering is derived from the inner element's ready state. Without an
// inner element there is no signal and it reports false.
func (v *VideoJS) Buffering() bool {
	if v.video == nil {
		return false
	}
	return safe(false, func() bool {
		return v.video.ReadyState() < HaveFutureData && !v.player.Paused()
	})
}

func (v *VideoJS) Fullscreen() bool {
	return safe(false, func() bool { return v.player.IsFullscreen() })
}

func (v *VideoJS) VideoSrc() string {
	return safe("", func() string {
		if src := v.player.CurrentSrc(); src != "" {
			return src
		}
		return v.player.Src()
	})
}

// Quality reads the first level of the quality-levels plugin when present,
// then falls back to the inner element's dimensions.
func (v *VideoJS) Quality() *Quality {
	return safe(nil, func() *Quality {
		if plugin, ok := v.player.(QualityLevelsPlugin); ok {
			if levels := plugin.QualityLevels(); len(levels) > 0 {
				level := levels[0]
				return &Quality{
					Width:   level.Width,
					Height:  level.Height,
					Bitrate: level.Bitrate,
					Level:   labelOr(level.Label, "auto"),
				}
			}
		}

		if v.video == nil {
			return nil
		}
		return dimensionQuality(v.video.VideoWidth(), v.video.VideoHeight())
	})
}

func (v *VideoJS) AddEventListener(name string, l *Listener) {
	try(func() { v.player.On(name, l) })
}

func (v *VideoJS) RemoveEventListener(name string, l *Listener) {
	try(func() { v.player.Off(name, l) })
}
