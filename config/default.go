// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/constant"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/util"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
// The description is wrapped to the terminal width.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vidtrack + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	case float64:
		return "float"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.TrackerProgressInterval, 10, "Seconds between progress polls.\n0 or less disables polling")
	register(key.TrackerAutoTrack, true, "Attach native event listeners when a tracker starts.\nPolling runs either way")
	register(key.TrackerDebug, false, "Trace every event to stderr before it is delivered")
	register(key.TrackerSessionID, "", "Session id stamped on every event.\nA new one is generated per tracker if empty")
	register(key.TrackerMetadata, []string{}, "Metadata attached to every event, as key=value pairs")
	register(key.PlayerDefault, string(player.KindHTML5), "Player variant to simulate when replaying.\nType \"vidtrack players\" to list them")
	register(key.SinkJSONL, "", "Append events to this JSONL file")
	register(key.SinkRecord, false, "Keep a JSONL recording of every session.\nType \"vidtrack where --recordings\" to see where they go")
	register(key.SinkNatsURL, "", "Publish events to this NATS server, e.g. nats://127.0.0.1:4222")
	register(key.SinkNatsSubject, "vidtrack.events", "Subject prefix for published events.\nThe event type is appended")
	register(key.SinkDedup, false, "Drop events identical to one delivered recently")
	register(key.SinkDedupSize, 1024, "How many recent events the dedup window remembers")
	register(key.MetricsAddr, "", "Serve Prometheus metrics on this address while replaying, e.g. :9090")
	register(key.HistorySave, true, "Save a summary of every replayed session")
	register(key.RecordingsTTL, 14, "Days a recording is kept before it is removed.\n0 keeps them forever")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.TUIItemSpacing, 0, "Blank lines between events in the inspector")

	if len(Default) != key.DefinedFieldsCount {
		panic(fmt.Sprintf("expected %d config fields, registered %d", key.DefinedFieldsCount, len(Default)))
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"wrap":     func(s string) string { return wordwrap.String(s, descriptionWidth()) },
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint (wrap .Description) }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))

func descriptionWidth() int {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		return 80
	}
	return min(width, 100)
}
