package history

import (
	"fmt"
	"time"

	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/player"
)

// Record is the saved outcome of one replay.
type Record struct {
	SessionID string            `json:"session_id"`
	Player    player.Kind       `json:"player"`
	Script    string            `json:"script"`
	Events    int               `json:"events"`
	Summary   analytics.Summary `json:"summary"`
	SavedAt   time.Time         `json:"saved_at"`
}

func (r *Record) String() string {
	return fmt.Sprintf("%s  %s  %s", r.SavedAt.Format(time.DateTime), r.Player, r.Script)
}

// Describe is a one line digest of the summary.
func (r *Record) Describe() string {
	return fmt.Sprintf(
		"%d events, %.1fs played, %d seeks, %d buffers, %.0f%% complete, engagement %.1f",
		r.Events,
		r.Summary.TotalPlayTime/1000,
		r.Summary.SeekCount,
		r.Summary.BufferCount,
		r.Summary.CompletionRate,
		r.Summary.EngagementScore,
	)
}
