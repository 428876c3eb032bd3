package sim

import (
	"context"
	"fmt"

	"github.com/vidtrack/vidtrack/player"
)

// VideoJS looks like a Video.js player with the quality-levels plugin.
type VideoJS struct {
	state *State
}

func (v *VideoJS) CurrentTime() float64             { return v.state.Read().Position }
func (v *VideoJS) Duration() float64                { return v.state.Read().Duration }
func (v *VideoJS) Volume() float64                  { return v.state.Read().Volume }
func (v *VideoJS) Muted() bool                      { return v.state.Read().Muted }
func (v *VideoJS) Paused() bool                     { return v.state.Read().Paused }
func (v *VideoJS) IsFullscreen() bool               { return v.state.Read().Fullscreen }
func (v *VideoJS) CurrentSrc() string               { return v.state.Read().Src }
func (v *VideoJS) Src() string                      { return v.state.Read().Src }
func (v *VideoJS) El() player.Root                  { return v.state.element }
func (v *VideoJS) On(n string, l *player.Listener)  { v.state.On(n, l) }
func (v *VideoJS) Off(n string, l *player.Listener) { v.state.Off(n, l) }

func (v *VideoJS) QualityLevels() []player.QualityLevel {
	q := v.state.Read().Quality
	if q == nil {
		return nil
	}
	return []player.QualityLevel{{Width: q.Width, Height: q.Height, Bitrate: q.Bitrate, Label: q.Level}}
}

// JW looks like a JW Player. Its state string is derived from the flags.
type JW struct {
	state *State
}

func (j *JW) GetPosition() float64 { return j.state.Read().Position }
func (j *JW) GetDuration() float64 { return j.state.Read().Duration }
func (j *JW) GetVolume() float64   { return j.state.Read().Volume * 100 }
func (j *JW) GetMute() bool        { return j.state.Read().Muted }
func (j *JW) GetFullscreen() bool  { return j.state.Read().Fullscreen }

func (j *JW) GetState() player.JWState {
	snap := j.state.Read()
	switch {
	case snap.Src == "":
		return player.JWIdle
	case snap.Ended:
		return player.JWComplete
	case snap.Stalled && !snap.Paused:
		return player.JWBuffering
	case snap.Paused:
		return player.JWPaused
	default:
		return player.JWPlaying
	}
}

func (j *JW) GetPlaylistItem() *player.JWPlaylistItem {
	return &player.JWPlaylistItem{File: j.state.Read().Src}
}

func (j *JW) GetQualityLevels() []player.JWQualityLevel {
	q := j.state.Read().Quality
	if q == nil {
		return nil
	}
	return []player.JWQualityLevel{{Width: q.Width, Height: q.Height, Label: q.Level}}
}

func (j *JW) GetCurrentQuality() int {
	if j.state.Read().Quality == nil {
		return -1
	}
	return 0
}

func (j *JW) On(n string, l *player.Listener)  { j.state.On(n, l) }
func (j *JW) Off(n string, l *player.Listener) { j.state.Off(n, l) }

// Plyr looks like a Plyr instance.
type Plyr struct {
	state *State
}

func (p *Plyr) CurrentTime() float64    { return p.state.Read().Position }
func (p *Plyr) Duration() float64       { return p.state.Read().Duration }
func (p *Plyr) Volume() float64         { return p.state.Read().Volume }
func (p *Plyr) Muted() bool             { return p.state.Read().Muted }
func (p *Plyr) Paused() bool            { return p.state.Read().Paused }
func (p *Plyr) Seeking() bool           { return p.state.Read().Seeking }
func (p *Plyr) Media() player.PlyrMedia { return p.state.element }

func (p *Plyr) Buffering() bool {
	snap := p.state.Read()
	return snap.Stalled && !snap.Paused
}

func (p *Plyr) Fullscreen() *player.PlyrFullscreen {
	return &player.PlyrFullscreen{Active: p.state.Read().Fullscreen}
}

func (p *Plyr) Source() *player.PlyrSource {
	return &player.PlyrSource{Src: p.state.Read().Src}
}

func (p *Plyr) Quality() int {
	if q := p.state.Read().Quality; q != nil {
		return q.Height
	}
	return 0
}

func (p *Plyr) On(n string, l *player.Listener)  { p.state.On(n, l) }
func (p *Plyr) Off(n string, l *player.Listener) { p.state.Off(n, l) }

// Vimeo looks like a Vimeo player. Getters resolve immediately but still
// go through the asynchronous adapter cache.
type Vimeo struct {
	state *State
}

func (v *Vimeo) GetCurrentTime(context.Context) (float64, error) { return v.state.Read().Position, nil }
func (v *Vimeo) GetDuration(context.Context) (float64, error)    { return v.state.Read().Duration, nil }
func (v *Vimeo) GetVolume(context.Context) (float64, error)      { return v.state.Read().Volume, nil }
func (v *Vimeo) GetMuted(context.Context) (bool, error)          { return v.state.Read().Muted, nil }
func (v *Vimeo) GetPaused(context.Context) (bool, error)         { return v.state.Read().Paused, nil }
func (v *Vimeo) GetFullscreen(context.Context) (bool, error)     { return v.state.Read().Fullscreen, nil }
func (v *Vimeo) GetVideoURL(context.Context) (string, error)     { return v.state.Read().Src, nil }

func (v *Vimeo) GetVideoQuality(context.Context) (string, error) {
	if q := v.state.Read().Quality; q != nil && q.Level != "" {
		return q.Level, nil
	}
	return "auto", nil
}

func (v *Vimeo) On(n string, l *player.Listener)  { v.state.On(n, l) }
func (v *Vimeo) Off(n string, l *player.Listener) { v.state.Off(n, l) }

// youtubeBuckets maps a vertical resolution to the quality bucket the
// IFrame API reports for it.
var youtubeBuckets = map[int]string{
	2160: "hd2160",
	1440: "hd1440",
	1080: "hd1080",
	720:  "hd720",
	480:  "large",
	360:  "medium",
	240:  "small",
	144:  "tiny",
}

// YouTube looks like a YouTube IFrame player.
type YouTube struct {
	state *State
}

func (y *YouTube) AddEventListener(n string, l *player.Listener)    { y.state.On(n, l) }
func (y *YouTube) RemoveEventListener(n string, l *player.Listener) { y.state.Off(n, l) }

func (y *YouTube) GetCurrentTime() float64 { return y.state.Read().Position }
func (y *YouTube) GetDuration() float64    { return y.state.Read().Duration }
func (y *YouTube) GetVolume() float64      { return y.state.Read().Volume * 100 }
func (y *YouTube) IsMuted() bool           { return y.state.Read().Muted }
func (y *YouTube) GetVideoURL() string     { return y.state.Read().Src }

func (y *YouTube) GetPlayerState() player.YouTubeState {
	snap := y.state.Read()
	switch {
	case snap.Src == "":
		return player.YouTubeUnstarted
	case snap.Ended:
		return player.YouTubeEnded
	case snap.Stalled && !snap.Paused:
		return player.YouTubeBuffering
	case snap.Paused:
		return player.YouTubePaused
	default:
		return player.YouTubePlaying
	}
}

func (y *YouTube) GetPlaybackQuality() string {
	q := y.state.Read().Quality
	if q == nil {
		return ""
	}
	if bucket, ok := youtubeBuckets[q.Height]; ok {
		return bucket
	}
	return "auto"
}

// Vendor returns the object a player of the given kind would expose.
func (s *State) Vendor(kind player.Kind) (any, error) {
	switch kind {
	case player.KindHTML5:
		return s.element, nil
	case player.KindVideoJS:
		return &VideoJS{state: s}, nil
	case player.KindJWPlayer:
		return &JW{state: s}, nil
	case player.KindPlyr:
		return &Plyr{state: s}, nil
	case player.KindVimeo:
		return &Vimeo{state: s}, nil
	case player.KindYouTube:
		return &YouTube{state: s}, nil
	default:
		return nil, fmt.Errorf("%s cannot be simulated", kind)
	}
}

// Adapter wraps the vendor facade of kind with its registered adapter.
func (s *State) Adapter(kind player.Kind) (player.Adapter, error) {
	vendor, err := s.Vendor(kind)
	if err != nil {
		return nil, err
	}
	return player.New(kind, player.Target{Player: vendor, Document: s.doc})
}
