package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/color"
	"github.com/vidtrack/vidtrack/config"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/history"
	"github.com/vidtrack/vidtrack/icon"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/log"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/sink"
	"github.com/vidtrack/vidtrack/style"
	"github.com/vidtrack/vidtrack/tracker"
	"github.com/vidtrack/vidtrack/util"
	"github.com/vidtrack/vidtrack/where"
)

// sessionFlag is a flag shared by the commands that run a tracker.
type sessionFlag struct {
	name, key string
	define    func(cmd *cobra.Command)
}

var sessionFlags = []sessionFlag{
	{"interval", key.TrackerProgressInterval, func(cmd *cobra.Command) {
		cmd.Flags().Int("interval", 10, "Seconds between progress polls")
	}},
	{"debug", key.TrackerDebug, func(cmd *cobra.Command) {
		cmd.Flags().BoolP("debug", "d", false, "Trace every event to stderr")
	}},
	{"session", key.TrackerSessionID, func(cmd *cobra.Command) {
		cmd.Flags().String("session", "", "Session id instead of a generated one")
	}},
	{"metadata", key.TrackerMetadata, func(cmd *cobra.Command) {
		cmd.Flags().StringSliceP("metadata", "m", []string{}, "key=value pairs merged into every event")
	}},
	{"jsonl", key.SinkJSONL, func(cmd *cobra.Command) {
		cmd.Flags().StringP("jsonl", "o", "", "Write the event stream to a JSONL file")
	}},
	{"record", key.SinkRecord, func(cmd *cobra.Command) {
		cmd.Flags().BoolP("record", "r", false, "Keep a JSONL recording in the recordings directory")
	}},
	{"nats", key.SinkNatsURL, func(cmd *cobra.Command) {
		cmd.Flags().String("nats", "", "Publish events to the NATS server at this url")
	}},
	{"nats-subject", key.SinkNatsSubject, func(cmd *cobra.Command) {
		cmd.Flags().String("nats-subject", "vidtrack.events", "Subject prefix for published events")
	}},
	{"dedup", key.SinkDedup, func(cmd *cobra.Command) {
		cmd.Flags().Bool("dedup", false, "Drop repeated events")
	}},
	{"metrics-addr", key.MetricsAddr, func(cmd *cobra.Command) {
		cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	}},
}

func addSessionFlags(cmd *cobra.Command) {
	for _, f := range sessionFlags {
		f.define(cmd)
	}

	cmd.Flags().BoolP("quiet", "q", false, "Do not print events")
	cmd.Flags().Bool("json", false, "Print events as JSON lines")
}

// bindSessionFlags points the shared keys at cmd's flags. It runs in PreRun
// since several commands define the same flags.
func bindSessionFlags(cmd *cobra.Command, _ []string) {
	for _, f := range sessionFlags {
		lo.Must0(viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name)))
	}
}

// session wires a tracker to every configured sink.
type session struct {
	kind       player.Kind
	aggregator *analytics.Aggregator

	jsonl   []*sink.JSONL
	conn    *nats.Conn
	metrics *sink.Metrics
	server  *http.Server
	dedup   *sink.Dedup

	sink   event.Sink
	closer sync.Once
}

func newSession(cmd *cobra.Command, kind player.Kind) (*session, error) {
	s := &session{kind: kind, aggregator: analytics.New()}

	sinks := []event.Sink{s.aggregator.AddEvent}

	switch {
	case lo.Must(cmd.Flags().GetBool("quiet")):
	case lo.Must(cmd.Flags().GetBool("json")):
		sinks = append(sinks, sink.NewJSONL(cmd.OutOrStdout()).Write)
	default:
		sinks = append(sinks, func(ev event.VideoEvent) { cmd.Println(describe(ev)) })
	}

	if viper.GetBool(key.LogsWrite) {
		sinks = append(sinks, sink.Logrus(logrus.StandardLogger(), logrus.InfoLevel))
	}

	paths := []string{viper.GetString(key.SinkJSONL)}
	if viper.GetBool(key.SinkRecord) {
		paths = append(paths, recordingPath(kind, time.Now()))
	}

	for _, path := range lo.Compact(paths) {
		w, err := sink.CreateJSONL(path)
		if err != nil {
			s.close()
			return nil, err
		}
		s.jsonl = append(s.jsonl, w)
		sinks = append(sinks, w.Write)
	}

	if url := viper.GetString(key.SinkNatsURL); url != "" {
		conn, err := sink.ConnectNATS(url)
		if err != nil {
			s.close()
			return nil, err
		}
		s.conn = conn
		sinks = append(sinks, sink.NewNATS(conn, viper.GetString(key.SinkNatsSubject), 3).Write)
	}

	if addr := viper.GetString(key.MetricsAddr); addr != "" {
		s.metrics = sink.NewMetrics(string(kind))
		sinks = append(sinks, s.metrics.Observe)

		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		s.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %s", err)
			}
		}()
	}

	s.sink = sink.Multi(sinks...)
	if viper.GetBool(key.SinkDedup) {
		dedup, err := sink.NewDedup(viper.GetInt(key.SinkDedupSize), s.sink)
		if err != nil {
			s.close()
			return nil, err
		}
		s.dedup = dedup
		s.sink = dedup.Write
	}

	return s, nil
}

// recordingPath names a recording after the player and the time it started.
func recordingPath(kind player.Kind, at time.Time) string {
	return filepath.Join(where.Recordings(), fmt.Sprintf("%s-%s.jsonl", kind, at.Format("20060102-150405")))
}

func (s *session) trackerConfig() (tracker.Config, error) {
	return config.TrackerConfig(s.sink)
}

// finish prints the summary, saves it to history and keeps serving metrics
// until ctx is done.
func (s *session) finish(ctx context.Context, cmd *cobra.Command, sessionID, script string) error {
	summary := s.aggregator.Summary()

	if lo.Must(cmd.Flags().GetBool("json")) {
		lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(summary))
	} else {
		printSummary(cmd, sessionID, s.aggregator.Len(), summary)
	}

	if s.dedup != nil && s.dedup.Dropped() > 0 {
		cmd.PrintErrf("%s dropped %s\n", icon.Get(icon.Warn), util.Quantify(s.dedup.Dropped(), "duplicate", "duplicates"))
	}

	if viper.GetBool(key.HistorySave) {
		err := history.Save(&history.Record{
			SessionID: sessionID,
			Player:    s.kind,
			Script:    script,
			Events:    s.aggregator.Len(),
			Summary:   summary,
			SavedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}

	if s.server != nil {
		cmd.PrintErrf("%s serving metrics on %s, interrupt to stop\n", icon.Get(icon.Progress), s.server.Addr)
		<-ctx.Done()
	}

	return nil
}

// close releases the sinks. It is safe to call more than once.
func (s *session) close() {
	s.closer.Do(s.release)
}

func (s *session) release() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}

	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			log.Warnf("drain nats: %s", err)
		}
	}

	for _, w := range s.jsonl {
		if err := w.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Warn), err)
		}
	}
}

var eventIcons = map[event.Type]icon.Icon{
	event.Play:     icon.Play,
	event.Pause:    icon.Pause,
	event.Progress: icon.Progress,
	event.Error:    icon.Fail,
	event.Ended:    icon.Success,
}

// describe renders one event as a single line.
func describe(ev event.VideoEvent) string {
	d := ev.Data

	var detail string
	switch {
	case d.SeekInfo != nil:
		detail = fmt.Sprintf("%.2fs -> %.2fs", d.FromTime, d.ToTime)
	case d.QualityChange != nil && d.CurrentQuality != nil:
		detail = fmt.Sprintf("%dx%d", d.CurrentQuality.Width, d.CurrentQuality.Height)
	case d.BufferInfo != nil:
		detail = fmt.Sprintf("buffered %.2fs", d.BufferLength)
	case d.ErrorInfo != nil:
		detail = style.Fg(color.Red)(fmt.Sprintf("%d %s", d.ErrorCode, d.ErrorMessage))
	case d.ProgressInfo != nil:
		detail = fmt.Sprintf("%.1f%%", d.PercentComplete)
	case ev.Type == event.VolumeChange:
		detail = fmt.Sprintf("volume %.0f%% muted=%t", d.Volume*100, d.Muted)
	case ev.Type == event.FullscreenChange:
		detail = fmt.Sprintf("fullscreen=%t", d.Fullscreen)
	}

	prefix := "  "
	if i, ok := eventIcons[ev.Type]; ok {
		prefix = icon.Get(i)
	}

	return fmt.Sprintf(
		"%s %s %s %s",
		prefix,
		style.Faint(time.UnixMilli(d.Timestamp).UTC().Format("15:04:05.000")),
		style.Fg(color.Purple)(fmt.Sprintf("%-16s", ev.Type)),
		style.Fg(color.Yellow)(fmt.Sprintf("%8.2fs", d.CurrentTime))+" "+detail,
	)
}

func printSummary(cmd *cobra.Command, sessionID string, events int, s analytics.Summary) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render
	row := func(label, value string) {
		cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-16s", label)), value)
	}

	cmd.Println()
	cmd.Printf("%s %s\n", header("Session"), sessionID)
	row("events", util.Quantify(events, "event", "events"))
	row("play time", util.Millis(s.TotalPlayTime))
	row("seeks", fmt.Sprint(s.SeekCount))
	row("buffers", fmt.Sprintf("%d (avg %s)", s.BufferCount, util.Millis(s.AverageBufferDuration)))
	row("completion", fmt.Sprintf("%.1f%%", s.CompletionRate))
	row("engagement", fmt.Sprintf("%.1f", s.EngagementScore))
	row("quality changes", fmt.Sprint(s.QualityChanges))
	row("errors", fmt.Sprint(s.Errors))
}
