package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vidtrack/vidtrack/log"
)

// VimeoPlayer is the asynchronous surface of an embedded Vimeo player.
// Every getter blocks until the iframe answers or ctx is done.
type VimeoPlayer interface {
	GetCurrentTime(ctx context.Context) (float64, error)
	GetDuration(ctx context.Context) (float64, error)
	GetVolume(ctx context.Context) (float64, error)
	GetMuted(ctx context.Context) (bool, error)
	GetPaused(ctx context.Context) (bool, error)
	GetFullscreen(ctx context.Context) (bool, error)
	GetVideoURL(ctx context.Context) (string, error)
	GetVideoQuality(ctx context.Context) (string, error)
	On(name string, l *Listener)
	Off(name string, l *Listener)
}

type vimeoCache struct {
	currentTime float64
	duration    float64
	volume      float64
	muted       bool
	paused      bool
	fullscreen  bool
	videoURL    string
	quality     *Quality
}

// Vimeo adapts a Vimeo player by caching its asynchronous getters.
//
// The cache is filled in the background after construction and patched on
// every timeupdate, volumechange, play, pause and fullscreenchange
// notification. Until the first fill completes the getters return defaults.
// Seeking and buffering are not exposed by the player and always report false.
type Vimeo struct {
	player VimeoPlayer

	mu    sync.RWMutex
	cache vimeoCache

	ready     chan struct{}
	pending   sync.WaitGroup
	listeners map[string]*Listener

	// issued and applied number the refreshes of each getter group, so a
	// slow fetch never overwrites the result of a later one.
	issued  map[string]uint64
	applied map[string]uint64
}

func NewVimeo(p VimeoPlayer) *Vimeo {
	v := &Vimeo{
		player:    p,
		cache:     vimeoCache{paused: true},
		ready:     make(chan struct{}),
		listeners: make(map[string]*Listener),
		issued:    make(map[string]uint64),
		applied:   make(map[string]uint64),
	}

	go v.init(context.Background())
	return v
}

// Ready is closed once the initial fill has finished, successfully or not.
func (v *Vimeo) Ready() <-chan struct{} { return v.ready }

// Sync blocks until every cache refresh started so far has finished.
// Getters never wait on their own; replays call this to stay deterministic.
func (v *Vimeo) Sync() {
	<-v.ready
	v.pending.Wait()
}

func (v *Vimeo) init(ctx context.Context) {
	defer close(v.ready)

	if err := v.fill(ctx); err != nil {
		log.Diagnostic().
			WithField("player", KindVimeo).
			Warnf("Error initializing Vimeo adapter cache: %s", err)
	}
}

func (v *Vimeo) fill(ctx context.Context) (err error) {
	if v.player == nil {
		return errors.New("no player")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	var c vimeoCache
	if c.currentTime, err = v.player.GetCurrentTime(ctx); err != nil {
		return err
	}
	if c.duration, err = v.player.GetDuration(ctx); err != nil {
		return err
	}
	if c.volume, err = v.player.GetVolume(ctx); err != nil {
		return err
	}
	if c.muted, err = v.player.GetMuted(ctx); err != nil {
		return err
	}
	if c.paused, err = v.player.GetPaused(ctx); err != nil {
		return err
	}
	if c.fullscreen, err = v.player.GetFullscreen(ctx); err != nil {
		return err
	}
	if c.videoURL, err = v.player.GetVideoURL(ctx); err != nil {
		return err
	}

	v.mu.Lock()
	v.cache.currentTime = finite(c.currentTime)
	v.cache.duration = finite(c.duration)
	v.cache.volume = clamp01(c.volume)
	v.cache.muted = c.muted
	v.cache.paused = c.paused
	v.cache.fullscreen = c.fullscreen
	v.cache.videoURL = c.videoURL
	v.mu.Unlock()

	v.subscribe(ctx)

	label, err := v.player.GetVideoQuality(ctx)
	if err != nil {
		return err
	}

	v.patch(func(c *vimeoCache) { c.quality = vimeoQuality(label) })
	return nil
}

// refresher re-reads one group of getters and returns the patch to apply.
type refresher func(ctx context.Context) (func(c *vimeoCache), error)

// vimeoRefresh names the getter group a notification re-reads. Play and
// pause share one group since both re-read paused.
type vimeoRefresh struct {
	group string
	fetch refresher
}

func (v *Vimeo) subscribe(ctx context.Context) {
	refresh := map[string]vimeoRefresh{
		EventTimeUpdate:     {"time", v.refreshTime},
		EventVolumeChange:   {"volume", v.refreshVolume},
		EventPlay:           {"paused", v.refreshPaused},
		EventPause:          {"paused", v.refreshPaused},
		EventFullscreen:     {"fullscreen", v.refreshFullscreen},
		EventDurationChange: {"source", v.refreshSource},
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for name, r := range refresh {
		l := NewListener(func(NativeEvent) {
			seq := v.issue(r.group)
			v.pending.Add(1)
			go func() {
				defer v.pending.Done()
				v.update(ctx, r.group, seq, r.fetch)
			}()
		})
		v.listeners[name] = l
		try(func() { v.player.On(name, l) })
	}
}

func (v *Vimeo) refreshTime(ctx context.Context) (func(c *vimeoCache), error) {
	t, err := v.player.GetCurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	return func(c *vimeoCache) { c.currentTime = finite(t) }, nil
}

func (v *Vimeo) refreshVolume(ctx context.Context) (func(c *vimeoCache), error) {
	volume, err := v.player.GetVolume(ctx)
	if err != nil {
		return nil, err
	}
	muted, err := v.player.GetMuted(ctx)
	if err != nil {
		return nil, err
	}
	return func(c *vimeoCache) { c.volume, c.muted = clamp01(volume), muted }, nil
}

func (v *Vimeo) refreshPaused(ctx context.Context) (func(c *vimeoCache), error) {
	paused, err := v.player.GetPaused(ctx)
	if err != nil {
		return nil, err
	}
	return func(c *vimeoCache) { c.paused = paused }, nil
}

// refreshSource re-reads what changes when a new video is loaded.
func (v *Vimeo) refreshSource(ctx context.Context) (func(c *vimeoCache), error) {
	duration, err := v.player.GetDuration(ctx)
	if err != nil {
		return nil, err
	}
	url, err := v.player.GetVideoURL(ctx)
	if err != nil {
		return nil, err
	}
	return func(c *vimeoCache) { c.duration, c.videoURL = finite(duration), url }, nil
}

func (v *Vimeo) refreshFullscreen(ctx context.Context) (func(c *vimeoCache), error) {
	fullscreen, err := v.player.GetFullscreen(ctx)
	if err != nil {
		return nil, err
	}
	return func(c *vimeoCache) { c.fullscreen = fullscreen }, nil
}

func (v *Vimeo) issue(group string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued[group]++
	return v.issued[group]
}

// update patches only the fields fetch is responsible for. Failed fetches
// leave the cache untouched, and so do results older than one already
// applied for the same group.
func (v *Vimeo) update(ctx context.Context, group string, seq uint64, fetch refresher) {
	defer func() { _ = recover() }()

	apply, err := fetch(ctx)
	if err != nil {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq < v.applied[group] {
		return
	}
	v.applied[group] = seq
	apply(&v.cache)
}

func (v *Vimeo) patch(fn func(c *vimeoCache)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.cache)
}

func (v *Vimeo) read() vimeoCache {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cache
}

// Close removes the cache listeners. Fetches already in flight still
// complete and write into the cache.
func (v *Vimeo) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for name, l := range v.listeners {
		try(func() { v.player.Off(name, l) })
	}
	clear(v.listeners)
}

func (v *Vimeo) Kind() Kind { return KindVimeo }

func (v *Vimeo) CurrentTime() float64 { return v.read().currentTime }
func (v *Vimeo) Duration() float64    { return v.read().duration }
func (v *Vimeo) Volume() float64      { return v.read().volume }
func (v *Vimeo) Muted() bool          { return v.read().muted }
func (v *Vimeo) Paused() bool         { return v.read().paused }
func (v *Vimeo) Seeking() bool        { return false }
func (v *Vimeo) Buffering() bool      { return false }
func (v *Vimeo) Fullscreen() bool     { return v.read().fullscreen }
func (v *Vimeo) VideoSrc() string     { return v.read().videoURL }

func (v *Vimeo) Quality() *Quality {
	q := v.read().quality
	if q == nil {
		return nil
	}
	copied := *q
	return &copied
}

func (v *Vimeo) AddEventListener(name string, l *Listener) {
	try(func() { v.player.On(name, l) })
}

func (v *Vimeo) RemoveEventListener(name string, l *Listener) {
	try(func() { v.player.Off(name, l) })
}
