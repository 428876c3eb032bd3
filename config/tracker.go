package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/tracker"
)

// TrackerConfig builds a tracker configuration from the tracker.* keys.
// The sink is left to the caller.
func TrackerConfig(sink event.Sink) (tracker.Config, error) {
	metadata, err := ParseMetadata(viper.GetStringSlice(key.TrackerMetadata))
	if err != nil {
		return tracker.Config{}, err
	}

	cfg := tracker.Config{
		AutoTrack:        mo.Some(viper.GetBool(key.TrackerAutoTrack)),
		ProgressInterval: mo.Some(time.Duration(viper.GetInt(key.TrackerProgressInterval)) * time.Second),
		Debug:            mo.Some(viper.GetBool(key.TrackerDebug)),
		Metadata:         mo.Some(metadata),
		OnEvent:          mo.Some(sink),
	}
	if id := viper.GetString(key.TrackerSessionID); id != "" {
		cfg.SessionID = mo.Some(id)
	}

	return cfg, nil
}

// ParseMetadata turns key=value pairs into an event metadata map. Values
// that look like numbers or booleans keep that type.
func ParseMetadata(pairs []string) (map[string]any, error) {
	metadata := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata %q, expected key=value", pair)
		}
		if event.IsFixed(k) {
			return nil, fmt.Errorf("metadata key %q is reserved", k)
		}

		metadata[k] = scalar(strings.TrimSpace(v))
	}

	return metadata, nil
}

func scalar(v string) any {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
