package player

// JWState is the string state a JW Player reports.
type JWState string

const (
	JWIdle      JWState = "idle"
	JWBuffering JWState = "buffering"
	JWLoading   JWState = "loading"
	JWPlaying   JWState = "playing"
	JWPaused    JWState = "paused"
	JWComplete  JWState = "complete"
)

// JWPlaylistItem is the subset of a playlist entry the adapter reads.
type JWPlaylistItem struct {
	File string
}

// JWQualityLevel is one entry of JW Player's quality list.
type JWQualityLevel struct {
	Width  int
	Height int
	Label  string
}

// JWPlayerAPI is the method-call surface of a JW Player instance.
// Volume is reported on a 0..100 scale.
type JWPlayerAPI interface {
	GetPosition() float64
	GetDuration() float64
	GetVolume() float64
	GetMute() bool
	GetState() JWState
	GetFullscreen() bool
	GetPlaylistItem() *JWPlaylistItem
	GetQualityLevels() []JWQualityLevel
	GetCurrentQuality() int
	On(name string, l *Listener)
	Off(name string, l *Listener)
}

// JWPlayer adapts a JW Player. Paused and buffering are derived from its
// string state; seeking is not exposed by the player.
type JWPlayer struct {
	player JWPlayerAPI
}

func NewJWPlayer(p JWPlayerAPI) *JWPlayer {
	return &JWPlayer{player: p}
}

func (j *JWPlayer) Kind() Kind { return KindJWPlayer }

func (j *JWPlayer) CurrentTime() float64 {
	return safe(0, func() float64 { return finite(j.player.GetPosition()) })
}

func (j *JWPlayer) Duration() float64 {
	return safe(0, func() float64 { return finite(j.player.GetDuration()) })
}

func (j *JWPlayer) Volume() float64 {
	return safe(0, func() float64 { return unit(j.player.GetVolume()) })
}

func (j *JWPlayer) Muted() bool {
	return safe(false, func() bool { return j.player.GetMute() })
}

func (j *JWPlayer) state() JWState {
	return safe(JWState(""), func() JWState { return j.player.GetState() })
}

func (j *JWPlayer) Paused() bool {
	switch j.state() {
	case JWPaused, JWIdle:
		return true
	default:
		return false
	}
}

func (j *JWPlayer) Seeking() bool { return false }

func (j *JWPlayer) Buffering() bool {
	switch j.state() {
	case JWBuffering, JWLoading:
		return true
	default:
		return false
	}
}

func (j *JWPlayer) Fullscreen() bool {
	return safe(false, func() bool { return j.player.GetFullscreen() })
}

func (j *JWPlayer) VideoSrc() string {
	return safe("", func() string {
		if item := j.player.GetPlaylistItem(); item != nil {
			return item.File
		}
		return ""
	})
}

// Quality indexes the quality list by the current quality. JW Player does
// not report a bitrate.
func (j *JWPlayer) Quality() *Quality {
	return safe(nil, func() *Quality {
		levels := j.player.GetQualityLevels()
		current := j.player.GetCurrentQuality()
		if current < 0 || current >= len(levels) {
			return nil
		}

		level := levels[current]
		return &Quality{
			Width:  level.Width,
			Height: level.Height,
			Level:  labelOr(level.Label, "auto"),
		}
	})
}

func (j *JWPlayer) AddEventListener(name string, l *Listener) {
	try(func() { j.player.On(name, l) })
}

func (j *JWPlayer) RemoveEventListener(name string, l *Listener) {
	try(func() { j.player.Off(name, l) })
}
