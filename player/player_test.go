package player

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQualitiesEqual(t *testing.T) {
	Convey("Given two qualities", t, func() {
		a := &Quality{Width: 1920, Height: 1080, Bitrate: 5000, Level: "1080p"}
		b := &Quality{Width: 1920, Height: 1080, Bitrate: 5000, Level: "HD"}

		Convey("Labels do not take part in equality", func() {
			So(QualitiesEqual(a, b), ShouldBeTrue)
			So(a.Equal(b), ShouldBeTrue)
		})

		Convey("Any differing dimension or bitrate breaks equality", func() {
			So(QualitiesEqual(a, &Quality{Width: 1280, Height: 1080, Bitrate: 5000}), ShouldBeFalse)
			So(QualitiesEqual(a, &Quality{Width: 1920, Height: 720, Bitrate: 5000}), ShouldBeFalse)
			So(QualitiesEqual(a, &Quality{Width: 1920, Height: 1080, Bitrate: 1}), ShouldBeFalse)
		})

		Convey("Nil handling", func() {
			So(QualitiesEqual(nil, nil), ShouldBeTrue)
			So(QualitiesEqual(a, nil), ShouldBeFalse)
			So(QualitiesEqual(nil, b), ShouldBeFalse)
		})
	})
}

func TestEmitter(t *testing.T) {
	Convey("Given an emitter", t, func() {
		var e Emitter
		var got []string
		l := NewListener(func(ev NativeEvent) { got = append(got, ev.Type) })

		Convey("Registering the same handle twice delivers once", func() {
			e.AddEventListener("play", l)
			e.AddEventListener("play", l)
			e.Emit("play", NativeEvent{})
			So(got, ShouldResemble, []string{"play"})
			So(e.ListenerCount("play"), ShouldEqual, 1)
		})

		Convey("Removed handles are not called", func() {
			e.AddEventListener("pause", l)
			e.RemoveEventListener("pause", l)
			e.Emit("pause", NativeEvent{})
			So(got, ShouldBeEmpty)
			So(e.ListenerCount("pause"), ShouldEqual, 0)
		})

		Convey("A listener may remove itself while being called", func() {
			var self *Listener
			calls := 0
			self = NewListener(func(NativeEvent) {
				calls++
				e.RemoveEventListener("ended", self)
			})
			e.AddEventListener("ended", self)
			e.Emit("ended", NativeEvent{})
			e.Emit("ended", NativeEvent{})
			So(calls, ShouldEqual, 1)
		})

		Convey("A nil listener is ignored", func() {
			e.AddEventListener("play", nil)
			So(e.ListenerCount("play"), ShouldEqual, 0)
			So(func() { (*Listener)(nil).Handle(NativeEvent{}) }, ShouldNotPanic)
		})
	})
}

func TestHTML5(t *testing.T) {
	Convey("Given a raw video element", t, func() {
		el := &fakeElement{
			currentTime: 30,
			duration:    120,
			volume:      0.5,
			paused:      false,
			readyState:  HaveEnoughData,
			src:         "https://example.com/a.mp4",
			width:       1280,
			height:      720,
			buffered:    fakeRanges{{Start: 0, End: 10}, {Start: 25, End: 60}},
		}
		doc := &fakeDocument{fullscreen: map[string]any{}}
		a := NewHTML5(el, doc)

		Convey("Getters read the element directly", func() {
			So(a.Kind(), ShouldEqual, KindHTML5)
			So(a.CurrentTime(), ShouldEqual, 30)
			So(a.Duration(), ShouldEqual, 120)
			So(a.Volume(), ShouldEqual, 0.5)
			So(a.VideoSrc(), ShouldEqual, "https://example.com/a.mp4")
		})

		Convey("currentSrc wins over src", func() {
			el.currentSrc = "blob:xyz"
			So(a.VideoSrc(), ShouldEqual, "blob:xyz")
		})

		Convey("NaN duration is reported as 0", func() {
			el.duration = math.NaN()
			So(a.Duration(), ShouldEqual, 0)
		})

		Convey("Buffering depends on ready state and pause", func() {
			So(a.Buffering(), ShouldBeFalse)
			el.readyState = HaveCurrentData
			So(a.Buffering(), ShouldBeTrue)
			el.paused = true
			So(a.Buffering(), ShouldBeFalse)
		})

		Convey("Fullscreen compares element identity under every prefix", func() {
			So(a.Fullscreen(), ShouldBeFalse)
			doc.fullscreen["fullscreenElement"] = &fakeElement{}
			So(a.Fullscreen(), ShouldBeFalse)
			doc.fullscreen["webkitFullscreenElement"] = el
			So(a.Fullscreen(), ShouldBeTrue)
		})

		Convey("Without a document it is never fullscreen", func() {
			So(NewHTML5(el, nil).Fullscreen(), ShouldBeFalse)
		})

		Convey("Quality falls back to pixel dimensions", func() {
			So(a.Quality(), ShouldResemble, &Quality{Width: 1280, Height: 720, Level: "auto"})
			el.width, el.height = 0, 0
			So(a.Quality(), ShouldBeNil)
		})

		Convey("Quality prefers the first track label", func() {
			tracked := NewHTML5(trackedElement{fakeElement: el, tracks: []VideoTrack{{Label: "720p"}}}, nil)
			So(tracked.Quality().Level, ShouldEqual, "720p")

			blank := NewHTML5(trackedElement{fakeElement: el, tracks: []VideoTrack{{}}}, nil)
			So(blank.Quality().Level, ShouldEqual, "auto")
		})

		Convey("Buffer info reports the range around the playhead", func() {
			So(a.BufferedRanges(), ShouldHaveLength, 2)
			So(a.CurrentBufferInfo(), ShouldResemble, BufferInfo{Start: 25, End: 60, Length: 35})
			el.currentTime = 15
			So(a.CurrentBufferInfo(), ShouldResemble, BufferInfo{})
		})

		Convey("Listeners go to the element", func() {
			l := NewListener(func(NativeEvent) {})
			a.AddEventListener("play", l)
			So(el.ListenerCount("play"), ShouldEqual, 1)
			a.RemoveEventListener("play", l)
			So(el.ListenerCount("play"), ShouldEqual, 0)
		})
	})

	Convey("Given an element missing every capability", t, func() {
		a := NewHTML5(brokenElement{}, &fakeDocument{})

		Convey("Every getter returns its default", func() {
			So(a.CurrentTime(), ShouldEqual, 0)
			So(a.Duration(), ShouldEqual, 0)
			So(a.Volume(), ShouldEqual, 0)
			So(a.Muted(), ShouldBeFalse)
			So(a.Paused(), ShouldBeFalse)
			So(a.Seeking(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeFalse)
			So(a.Fullscreen(), ShouldBeFalse)
			So(a.VideoSrc(), ShouldBeEmpty)
			So(a.Quality(), ShouldBeNil)
			So(a.BufferedRanges(), ShouldBeEmpty)
			So(a.CurrentBufferInfo(), ShouldResemble, BufferInfo{})
			So(func() { a.AddEventListener("play", NewListener(nil)) }, ShouldNotPanic)
		})
	})
}

func TestVideoJS(t *testing.T) {
	Convey("Given a Video.js player", t, func() {
		inner := &fakeElement{currentTime: 5, duration: 50, volume: 1, readyState: HaveEnoughData, src: "a.m3u8", width: 640, height: 360}
		p := &fakeVideoJS{inner: inner}
		a := NewVideoJS(p)

		Convey("It proxies method calls", func() {
			So(a.Kind(), ShouldEqual, KindVideoJS)
			So(a.CurrentTime(), ShouldEqual, 5)
			So(a.Duration(), ShouldEqual, 50)
			So(a.Volume(), ShouldEqual, 1)
			So(a.VideoSrc(), ShouldEqual, "a.m3u8")
		})

		Convey("Seeking and buffering come from the inner element", func() {
			inner.seeking = true
			So(a.Seeking(), ShouldBeTrue)
			inner.readyState = HaveMetadata
			So(a.Buffering(), ShouldBeTrue)
		})

		Convey("Quality uses the quality-levels plugin first", func() {
			So(a.Quality(), ShouldResemble, &Quality{Width: 640, Height: 360, Level: "auto"})

			p.levels = []QualityLevel{{Width: 1920, Height: 1080, Bitrate: 4000}}
			leveled := NewVideoJS(leveledVideoJS{p})
			So(leveled.Quality(), ShouldResemble, &Quality{Width: 1920, Height: 1080, Bitrate: 4000, Level: "auto"})
		})

		Convey("Listeners go through on and off", func() {
			l := NewListener(func(NativeEvent) {})
			a.AddEventListener("seeked", l)
			So(p.ListenerCount("seeked"), ShouldEqual, 1)
			a.RemoveEventListener("seeked", l)
			So(p.ListenerCount("seeked"), ShouldEqual, 0)
		})
	})

	Convey("Given a Video.js player without an inner element", t, func() {
		p := &fakeVideoJS{}
		a := NewVideoJS(p)

		Convey("Seeking, buffering and quality degrade safely", func() {
			So(a.Seeking(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeFalse)
			So(a.Quality(), ShouldBeNil)
			So(a.CurrentTime(), ShouldEqual, 0)
		})
	})

	Convey("Given a Video.js player missing every method", t, func() {
		a := NewVideoJS(brokenVideoJS{})

		Convey("Every getter returns its default", func() {
			So(a.CurrentTime(), ShouldEqual, 0)
			So(a.Paused(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeFalse)
			So(a.Fullscreen(), ShouldBeFalse)
			So(a.VideoSrc(), ShouldBeEmpty)
			So(a.Quality(), ShouldBeNil)
		})
	})
}

func TestJWPlayer(t *testing.T) {
	Convey("Given a JW Player", t, func() {
		p := &fakeJW{
			position: 12,
			duration: 60,
			volume:   80,
			state:    JWPlaying,
			item:     &JWPlaylistItem{File: "https://cdn/x.mp4"},
			levels:   []JWQualityLevel{{Width: 1920, Height: 1080, Label: "1080p"}, {Width: 1280, Height: 720}},
			current:  1,
		}
		a := NewJWPlayer(p)

		Convey("Volume is normalized", func() {
			So(a.Volume(), ShouldAlmostEqual, 0.8)
		})

		Convey("State drives paused and buffering", func() {
			So(a.Paused(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeFalse)

			for _, state := range []JWState{JWPaused, JWIdle} {
				p.state = state
				So(a.Paused(), ShouldBeTrue)
			}
			for _, state := range []JWState{JWBuffering, JWLoading} {
				p.state = state
				So(a.Buffering(), ShouldBeTrue)
				So(a.Paused(), ShouldBeFalse)
			}
			So(a.Seeking(), ShouldBeFalse)
		})

		Convey("Source comes from the playlist item", func() {
			So(a.VideoSrc(), ShouldEqual, "https://cdn/x.mp4")
			p.item = nil
			So(a.VideoSrc(), ShouldBeEmpty)
		})

		Convey("Quality indexes the level list", func() {
			So(a.Quality(), ShouldResemble, &Quality{Width: 1280, Height: 720, Level: "auto"})
			p.current = -1
			So(a.Quality(), ShouldBeNil)
			p.current = 9
			So(a.Quality(), ShouldBeNil)
		})
	})

	Convey("Given a JW Player missing every method", t, func() {
		a := NewJWPlayer(brokenJW{})
		So(a.CurrentTime(), ShouldEqual, 0)
		So(a.Paused(), ShouldBeFalse)
		So(a.Buffering(), ShouldBeFalse)
		So(a.Quality(), ShouldBeNil)
		So(a.VideoSrc(), ShouldBeEmpty)
	})
}

func TestPlyr(t *testing.T) {
	Convey("Given a Plyr player", t, func() {
		p := &fakePlyr{
			currentTime: 3,
			duration:    30,
			volume:      0.25,
			fullscreen:  &PlyrFullscreen{Active: true},
			source:      &PlyrSource{Src: "v.mp4"},
			quality:     1080,
		}
		a := NewPlyr(p)

		Convey("Properties are read as is", func() {
			So(a.CurrentTime(), ShouldEqual, 3)
			So(a.Volume(), ShouldEqual, 0.25)
			So(a.Fullscreen(), ShouldBeTrue)
			So(a.VideoSrc(), ShouldEqual, "v.mp4")
		})

		Convey("Known heights map to dimensions", func() {
			So(a.Quality(), ShouldResemble, &Quality{Width: 1920, Height: 1080, Level: "1080p"})
		})

		Convey("Unknown heights keep the numeric label", func() {
			p.quality = 576
			So(a.Quality(), ShouldResemble, &Quality{Level: "576"})
		})

		Convey("Without a quality the media size is used", func() {
			p.quality = 0
			So(a.Quality(), ShouldBeNil)
			p.media = fakeMedia{width: 854, height: 480}
			So(a.Quality(), ShouldResemble, &Quality{Width: 854, Height: 480, Level: "auto"})
		})

		Convey("Missing fullscreen and source objects are tolerated", func() {
			p.fullscreen, p.source = nil, nil
			So(a.Fullscreen(), ShouldBeFalse)
			So(a.VideoSrc(), ShouldBeEmpty)
		})
	})

	Convey("Given a Plyr player missing every method", t, func() {
		a := NewPlyr(brokenPlyr{})
		So(a.Duration(), ShouldEqual, 0)
		So(a.Seeking(), ShouldBeFalse)
		So(a.Quality(), ShouldBeNil)
	})
}

func TestYouTube(t *testing.T) {
	Convey("Given a YouTube player", t, func() {
		p := &fakeYouTube{currentTime: 10, duration: 100, volume: 50, state: YouTubePlaying, url: "https://youtu.be/x", quality: "hd720"}
		doc := &fakeDocument{fullscreen: map[string]any{}}
		a := NewYouTube(p, doc)

		Convey("Volume is normalized", func() {
			So(a.Volume(), ShouldEqual, 0.5)
		})

		Convey("State membership drives paused and buffering", func() {
			for _, state := range []YouTubeState{YouTubePaused, YouTubeCued, YouTubeEnded} {
				p.state = state
				So(a.Paused(), ShouldBeTrue)
				So(a.Buffering(), ShouldBeFalse)
			}
			p.state = YouTubeBuffering
			So(a.Paused(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeTrue)
			p.state = YouTubeUnstarted
			So(a.Paused(), ShouldBeFalse)
		})

		Convey("Quality buckets map to dimensions and labels", func() {
			So(a.Quality(), ShouldResemble, &Quality{Width: 1280, Height: 720, Level: "720p"})
			p.quality = "large"
			So(a.Quality(), ShouldResemble, &Quality{Width: 854, Height: 480, Level: "480p"})
			p.quality = "auto"
			So(a.Quality(), ShouldResemble, &Quality{Level: "Auto"})
			p.quality = "highres"
			So(a.Quality(), ShouldResemble, &Quality{Level: "highres"})
			p.quality = ""
			So(a.Quality(), ShouldBeNil)
		})

		Convey("Fullscreen is any document fullscreen element", func() {
			So(a.Fullscreen(), ShouldBeFalse)
			doc.fullscreen["mozFullScreenElement"] = struct{}{}
			So(a.Fullscreen(), ShouldBeTrue)
			So(NewYouTube(p, nil).Fullscreen(), ShouldBeFalse)
		})

		Convey("Listeners go to the player", func() {
			l := NewListener(func(NativeEvent) {})
			a.AddEventListener("onStateChange", l)
			So(p.ListenerCount("onStateChange"), ShouldEqual, 1)
		})
	})

	Convey("Given a YouTube player missing every method", t, func() {
		a := NewYouTube(brokenYouTube{}, nil)
		So(a.CurrentTime(), ShouldEqual, 0)
		So(a.Paused(), ShouldBeFalse)
		So(a.Buffering(), ShouldBeFalse)
		So(a.Quality(), ShouldBeNil)
		So(func() { a.AddEventListener("play", NewListener(nil)) }, ShouldNotPanic)
	})
}

func TestVimeo(t *testing.T) {
	Convey("Given a Vimeo player", t, func() {
		p := &fakeVimeo{currentTime: 7, duration: 70, volume: 0.6, url: "https://vimeo.com/1", quality: "720p"}
		a := NewVimeo(p)
		<-a.Ready()

		Convey("The cache is filled from the async getters", func() {
			So(a.CurrentTime(), ShouldEqual, 7)
			So(a.Duration(), ShouldEqual, 70)
			So(a.Volume(), ShouldEqual, 0.6)
			So(a.Paused(), ShouldBeFalse)
			So(a.VideoSrc(), ShouldEqual, "https://vimeo.com/1")
			So(a.Quality(), ShouldResemble, &Quality{Width: 1280, Height: 720, Level: "720p"})
		})

		Convey("Seeking and buffering are never reported", func() {
			So(a.Seeking(), ShouldBeFalse)
			So(a.Buffering(), ShouldBeFalse)
		})

		Convey("Notifications patch only their own fields", func() {
			p.currentTime, p.volume, p.muted = 9, 0.1, true
			p.Emit(EventTimeUpdate, NativeEvent{})
			a.Sync()

			So(a.CurrentTime(), ShouldEqual, 9)
			So(a.Volume(), ShouldEqual, 0.6)
			So(a.Muted(), ShouldBeFalse)

			p.Emit(EventVolumeChange, NativeEvent{})
			a.Sync()
			So(a.Volume(), ShouldEqual, 0.1)
			So(a.Muted(), ShouldBeTrue)
		})

		Convey("A new video refreshes duration and source", func() {
			p.duration, p.url = 120, "https://vimeo.com/2"
			p.Emit(EventDurationChange, NativeEvent{})
			a.Sync()

			So(a.Duration(), ShouldEqual, 120)
			So(a.VideoSrc(), ShouldEqual, "https://vimeo.com/2")
		})

		Convey("A slow refresh never overwrites a later one", func() {
			at := func(t float64) refresher {
				return func(context.Context) (func(c *vimeoCache), error) {
					return func(c *vimeoCache) { c.currentTime = t }, nil
				}
			}

			first, second := a.issue("time"), a.issue("time")
			a.update(context.Background(), "time", second, at(20))
			a.update(context.Background(), "time", first, at(10))
			So(a.CurrentTime(), ShouldEqual, 20)

			Convey("Other groups are numbered on their own", func() {
				p.volume = 0.3
				p.Emit(EventVolumeChange, NativeEvent{})
				a.Sync()
				So(a.Volume(), ShouldEqual, 0.3)
			})
		})

		Convey("Close removes the cache listeners", func() {
			So(p.ListenerCount(EventTimeUpdate), ShouldEqual, 1)
			a.Close()
			So(p.ListenerCount(EventTimeUpdate), ShouldEqual, 0)
		})
	})

	Convey("Given a Vimeo player whose getters fail", t, func() {
		p := &fakeVimeo{currentTime: 7, err: errors.New("iframe gone")}
		a := NewVimeo(p)
		<-a.Ready()

		Convey("The cache stays at defaults", func() {
			So(a.CurrentTime(), ShouldEqual, 0)
			So(a.Paused(), ShouldBeTrue)
			So(a.Quality(), ShouldBeNil)
			So(p.ListenerCount(EventTimeUpdate), ShouldEqual, 0)
		})
	})

	Convey("Given an unknown Vimeo quality", t, func() {
		So(vimeoQuality("1440p"), ShouldResemble, &Quality{Level: "1440p"})
		So(vimeoQuality(""), ShouldResemble, &Quality{Level: "auto"})
		So(vimeoQuality("4K"), ShouldResemble, &Quality{Width: 3840, Height: 2160, Level: "4K"})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the built-in registry", t, func() {
		Convey("Every kind is registered", func() {
			So(Kinds(), ShouldResemble, []Kind{KindHTML5, KindJWPlayer, KindMPV, KindPlyr, KindVideoJS, KindVimeo, KindYouTube})
		})

		Convey("Names are normalized", func() {
			for name, want := range map[string]Kind{
				"HTML5":     KindHTML5,
				"video.js":  KindVideoJS,
				"JW Player": KindJWPlayer,
				"YouTube":   KindYouTube,
			} {
				got, err := ParseKind(name)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}

			_, err := ParseKind("flash")
			So(err, ShouldNotBeNil)
		})

		Convey("New builds the matching variant", func() {
			a, err := New(KindHTML5, Target{Player: &fakeElement{}})
			So(err, ShouldBeNil)
			So(a.Kind(), ShouldEqual, KindHTML5)

			a, err = New(KindMPV, Target{Player: "/tmp/mpv.sock"})
			So(err, ShouldBeNil)
			So(a.(*MPV).Socket(), ShouldEqual, "/tmp/mpv.sock")
		})

		Convey("Mismatched targets are rejected", func() {
			_, err := New(KindJWPlayer, Target{Player: &fakeElement{}})
			So(err, ShouldNotBeNil)

			_, err = New("flash", Target{})
			So(err, ShouldNotBeNil)
		})
	})
}
