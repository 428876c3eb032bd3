// Package clock provides the time source and the repeating scheduler the
// tracker polls with.
package clock

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// Clock tells the time and schedules repeating callbacks.
type Clock interface {
	Now() time.Time

	// Every calls fn every d until the returned cancel is called. A
	// non-positive d schedules nothing. Calls never overlap.
	Every(d time.Duration, fn func()) (cancel func())
}

type wall struct{}

// Real returns the wall clock. Every runs fn on its own goroutine.
func Real() Clock { return wall{} }

func (wall) Now() time.Time { return time.Now() }

func (wall) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}

	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// select picks at random when both are ready
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() { once.Do(func() { close(stop) }) }
}

// Virtual is a manually advanced clock. Scheduled callbacks fire
// synchronously inside Advance, in due order.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers map[int]*timer
}

type timer struct {
	id     int
	every  time.Duration
	due    time.Time
	fn     func()
	active bool
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, timers: make(map[int]*timer)}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextID++
	t := &timer{id: v.nextID, every: d, due: v.now.Add(d), fn: fn, active: true}
	v.timers[t.id] = t

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		t.active = false
		delete(v.timers, t.id)
	}
}

// Pending returns the number of active timers.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Advance moves the clock forward by d, firing every callback that falls
// due on the way. Now reports the due time while a callback runs.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.nextDue(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}

		v.now = next.due
		next.due = next.due.Add(next.every)
		fn := next.fn
		v.mu.Unlock()

		fn()
	}
}

// nextDue picks the earliest active timer due at or before target. Ties go
// to the timer scheduled first.
func (v *Virtual) nextDue(target time.Time) *timer {
	var candidates []*timer
	for _, t := range v.timers {
		if t.active && !t.due.After(target) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	return lo.MinBy(candidates, func(a, b *timer) bool {
		if a.due.Equal(b.due) {
			return a.id < b.id
		}
		return a.due.Before(b.due)
	})
}
