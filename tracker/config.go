package tracker

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/vidtrack/vidtrack/event"
)

// DefaultProgressInterval is the poll period when none is configured.
const DefaultProgressInterval = 10 * time.Second

// Config is a partial tracker configuration. Absent fields keep their
// current value, or the default at construction.
type Config struct {
	SessionID        mo.Option[string]
	AutoTrack        mo.Option[bool]
	ProgressInterval mo.Option[time.Duration]
	OnEvent          mo.Option[event.Sink]
	Debug            mo.Option[bool]
	Metadata         mo.Option[map[string]any]
}

// settings is the fully resolved configuration.
type settings struct {
	sessionID        string
	autoTrack        bool
	progressInterval time.Duration
	onEvent          event.Sink
	debug            bool
	metadata         map[string]any
}

func defaults(now time.Time) settings {
	return settings{
		sessionID:        generateSessionID(now),
		autoTrack:        true,
		progressInterval: DefaultProgressInterval,
		onEvent:          event.Noop,
		metadata:         map[string]any{},
	}
}

// merge overwrites every field present in c. Empty session ids and nil
// sinks are treated as absent.
func (s settings) merge(c Config) settings {
	if id, ok := c.SessionID.Get(); ok && id != "" {
		s.sessionID = id
	}
	if v, ok := c.AutoTrack.Get(); ok {
		s.autoTrack = v
	}
	if v, ok := c.ProgressInterval.Get(); ok {
		s.progressInterval = v
	}
	if sink, ok := c.OnEvent.Get(); ok && sink != nil {
		s.onEvent = sink
	}
	if v, ok := c.Debug.Get(); ok {
		s.debug = v
	}
	if m, ok := c.Metadata.Get(); ok {
		s.metadata = maps.Clone(m)
		if s.metadata == nil {
			s.metadata = map[string]any{}
		}
	}
	return s
}

// generateSessionID returns session_<unix millis>_<9 random characters>.
func generateSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), random[:9])
}
