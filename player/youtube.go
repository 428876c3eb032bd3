package player

// YouTubeState is the integer state of the YouTube IFrame player.
type YouTubeState int

const (
	YouTubeUnstarted YouTubeState = -1
	YouTubeEnded     YouTubeState = 0
	YouTubePlaying   YouTubeState = 1
	YouTubePaused    YouTubeState = 2
	YouTubeBuffering YouTubeState = 3
	YouTubeCued      YouTubeState = 5
)

// YouTubePlayer is the IFrame API surface the adapter reads. Volume is
// reported on a 0..100 scale and quality as a coarse bucket name such as
// "hd1080" or "large".
type YouTubePlayer interface {
	EventTarget

	GetCurrentTime() float64
	GetDuration() float64
	GetVolume() float64
	IsMuted() bool
	GetPlayerState() YouTubeState
	GetVideoURL() string
	GetPlaybackQuality() string
}

// YouTube adapts a YouTube IFrame player. Paused and buffering are derived
// from the state enumeration, quality from the bucket table.
type YouTube struct {
	player   YouTubePlayer
	document Document
}

// NewYouTube wraps p. The player has no fullscreen getter, so fullscreen is
// read from doc: any active fullscreen element counts. A nil doc reports
// false.
func NewYouTube(p YouTubePlayer, doc Document) *YouTube {
	return &YouTube{player: p, document: doc}
}

func (y *YouTube) Kind() Kind { return KindYouTube }

func (y *YouTube) CurrentTime() float64 {
	return safe(0, func() float64 { return finite(y.player.GetCurrentTime()) })
}

func (y *YouTube) Duration() float64 {
	return safe(0, func() float64 { return finite(y.player.GetDuration()) })
}

func (y *YouTube) Volume() float64 {
	return safe(0, func() float64 { return unit(y.player.GetVolume()) })
}

func (y *YouTube) Muted() bool {
	return safe(false, func() bool { return y.player.IsMuted() })
}

func (y *YouTube) state() YouTubeState {
	return safe(YouTubeUnstarted, func() YouTubeState { return y.player.GetPlayerState() })
}

func (y *YouTube) Paused() bool {
	switch y.state() {
	case YouTubePaused, YouTubeCued, YouTubeEnded:
		return true
	default:
		return false
	}
}

func (y *YouTube) Seeking() bool { return false }

func (y *YouTube) Buffering() bool {
	return y.state() == YouTubeBuffering
}

func (y *YouTube) Fullscreen() bool {
	if y.document == nil {
		return false
	}

	for _, prop := range FullscreenElementProperties {
		if safe(false, func() bool { return y.document.FullscreenElement(prop) != nil }) {
			return true
		}
	}
	return false
}

func (y *YouTube) VideoSrc() string {
	return safe("", func() string { return y.player.GetVideoURL() })
}

func (y *YouTube) Quality() *Quality {
	return safe(nil, func() *Quality { return youtubeQuality(y.player.GetPlaybackQuality()) })
}

func (y *YouTube) AddEventListener(name string, l *Listener) {
	try(func() { y.player.AddEventListener(name, l) })
}

func (y *YouTube) RemoveEventListener(name string, l *Listener) {
	try(func() { y.player.RemoveEventListener(name, l) })
}
