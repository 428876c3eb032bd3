package player

// PlyrFullscreen mirrors Plyr's fullscreen API object.
type PlyrFullscreen struct {
	Active bool
}

// PlyrSource mirrors the source object of a Plyr player.
type PlyrSource struct {
	Src string
}

// PlyrMedia is the media element Plyr renders into.
type PlyrMedia interface {
	VideoWidth() int
	VideoHeight() int
}

// PlyrPlayer is the property surface of a Plyr instance. Quality is the
// vertical resolution of the active rendition, 0 when unset.
type PlyrPlayer interface {
	CurrentTime() float64
	Duration() float64
	Volume() float64
	Muted() bool
	Paused() bool
	Seeking() bool
	Buffering() bool
	Fullscreen() *PlyrFullscreen
	Source() *PlyrSource
	Quality() int
	Media() PlyrMedia
	On(name string, l *Listener)
	Off(name string, l *Listener)
}

// Plyr adapts a Plyr player.
type Plyr struct {
	player PlyrPlayer
}

func NewPlyr(p PlyrPlayer) *Plyr {
	return &Plyr{player: p}
}

func (p *Plyr) Kind() Kind { return KindPlyr }

func (p *Plyr) CurrentTime() float64 {
	return safe(0, func() float64 { return finite(p.player.CurrentTime()) })
}

func (p *Plyr) Duration() float64 {
	return safe(0, func() float64 { return finite(p.player.Duration()) })
}

func (p *Plyr) Volume() float64 {
	return safe(0, func() float64 { return clamp01(p.player.Volume()) })
}

func (p *Plyr) Muted() bool {
	return safe(false, func() bool { return p.player.Muted() })
}

func (p *Plyr) Paused() bool {
	return safe(false, func() bool { return p.player.Paused() })
}

func (p *Plyr) Seeking() bool {
	return safe(false, func() bool { return p.player.Seeking() })
}

func (p *Plyr) Buffering() bool {
	return safe(false, func() bool { return p.player.Buffering() })
}

func (p *Plyr) Fullscreen() bool {
	return safe(false, func() bool {
		fs := p.player.Fullscreen()
		return fs != nil && fs.Active
	})
}

func (p *Plyr) VideoSrc() string {
	return safe("", func() string {
		if source := p.player.Source(); source != nil {
			return source.Src
		}
		return ""
	})
}

// Quality maps Plyr's height to known dimensions. Without a quality the
// media element's size is used.
func (p *Plyr) Quality() *Quality {
	return safe(nil, func() *Quality {
		if height := p.player.Quality(); height > 0 {
			return plyrQuality(height)
		}

		media := p.player.Media()
		if media == nil {
			return nil
		}
		return dimensionQuality(media.VideoWidth(), media.VideoHeight())
	})
}

func (p *Plyr) AddEventListener(name string, l *Listener) {
	try(func() { p.player.On(name, l) })
}

func (p *Plyr) RemoveEventListener(name string, l *Listener) {
	try(func() { p.player.Off(name, l) })
}
