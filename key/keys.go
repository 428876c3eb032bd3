// Package key defines the configuration keys shared by the config registry and its readers.
package key

// DefinedFieldsCount is the number of keys registered in config.Default.
const DefinedFieldsCount = 21

// Tracker defaults applied to every tracker the CLI creates.
const (
	TrackerProgressInterval = "tracker.progress_interval"
	TrackerAutoTrack        = "tracker.auto_track"
	TrackerDebug            = "tracker.debug"
	TrackerSessionID        = "tracker.session_id"
	TrackerMetadata         = "tracker.metadata"
)

// Player selection for replays.
const (
	PlayerDefault = "player.default"
)

// Event sinks - where replayed events are delivered besides stdout.
const (
	SinkJSONL       = "sink.jsonl"
	SinkRecord      = "sink.record"
	SinkNatsURL     = "sink.nats_url"
	SinkNatsSubject = "sink.nats_subject"
	SinkDedup       = "sink.dedup"
	SinkDedupSize   = "sink.dedup_size"
)

// Metrics exposition.
const (
	MetricsAddr = "metrics.addr"
)

// Session history.
const (
	HistorySave = "history.save"
)

const (
	RecordingsTTL = "recordings.ttl"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

const (
	CliColored = "cli.colored"
)

const (
	IconsVariant = "icons.variant"
)

// Event inspector.
const (
	TUIItemSpacing = "tui.item_spacing"
)
