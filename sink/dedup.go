package sink

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vidtrack/vidtrack/event"
)

// DefaultDedupSize is the number of recent event keys remembered.
const DefaultDedupSize = 1024

// Dedup drops events already seen among the most recent ones.
type Dedup struct {
	mu    sync.Mutex
	cache *lru.Cache[string, struct{}]
	next  event.Sink
	hits  int
}

// NewDedup forwards unseen events to next.
func NewDedup(size int, next event.Sink) (*Dedup, error) {
	if size <= 0 {
		size = DefaultDedupSize
	}

	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}

	return &Dedup{cache: cache, next: next}, nil
}

// Key identifies an event by type, session, timestamp and position.
func Key(ev event.VideoEvent) string {
	return fmt.Sprintf("%s:%s:%d:%g", ev.Type, ev.Data.SessionID, ev.Data.Timestamp, ev.Data.CurrentTime)
}

// IsDuplicate records ev and reports whether its key was already present.
func (d *Dedup) IsDuplicate(ev event.VideoEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := Key(ev)
	if d.cache.Contains(key) {
		d.hits++
		return true
	}

	d.cache.Add(key, struct{}{})
	return false
}

// Dropped returns how many events were suppressed.
func (d *Dedup) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hits
}

// Write is the event.Sink of the filter.
func (d *Dedup) Write(ev event.VideoEvent) {
	if d.IsDuplicate(ev) {
		return
	}
	d.next(ev)
}
