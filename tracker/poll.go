package tracker

import (
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/player"
)

// poll is one tick of the progress timer. Paused or seeking players emit
// nothing, not even a pending quality change. A tick racing with Destroy
// emits nothing once Destroy has marked the tracker.
func (t *Tracker) poll() {
	if t.isDestroyed() || t.adapter.Paused() || t.adapter.Seeking() {
		return
	}

	if duration := t.adapter.Duration(); duration > 0 {
		data := t.snapshot()
		data.ProgressInfo = &event.ProgressInfo{
			PercentComplete: t.adapter.CurrentTime() / duration * 100,
		}
		if t.isDestroyed() {
			return
		}
		t.emit(event.Progress, data)
	}

	current := t.adapter.Quality()
	if current == nil {
		return
	}

	t.mu.Lock()
	previous := t.lastQuality
	changed := !player.QualitiesEqual(current, previous)
	if changed {
		t.lastQuality = current
	}
	t.mu.Unlock()

	if !changed || t.isDestroyed() {
		return
	}

	data := t.snapshot()
	data.QualityChange = &event.QualityChange{
		PreviousQuality: previous,
		CurrentQuality:  current,
	}
	t.emit(event.QualityChanged, data)
}

func (t *Tracker) isDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}
