package sink

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/filesystem"
)

func sample(typ event.Type, ts int64) event.VideoEvent {
	return event.VideoEvent{
		Type: typ,
		Data: event.Data{Base: event.Base{
			Timestamp:   ts,
			CurrentTime: float64(ts) / 1000,
			Duration:    120,
			Volume:      1,
			SessionID:   "s1",
		}},
	}
}

type collector struct {
	events []event.VideoEvent
}

func (c *collector) sink(ev event.VideoEvent) { c.events = append(c.events, ev) }

func TestMulti(t *testing.T) {
	Convey("Given two collectors", t, func() {
		var a, b collector

		Convey("Every event reaches both in order", func() {
			s := Multi(a.sink, nil, b.sink)
			s(sample(event.Play, 1))
			s(sample(event.Pause, 2))

			So(a.events, ShouldHaveLength, 2)
			So(b.events, ShouldResemble, a.events)
		})

		Convey("Filter keeps only the listed types", func() {
			s := Filter(a.sink, event.Error, event.Ended)
			s(sample(event.Play, 1))
			s(sample(event.Ended, 2))

			So(a.events, ShouldHaveLength, 1)
			So(a.events[0].Type, ShouldEqual, event.Ended)
		})
	})
}

type failingWriter struct{ calls int }

func (f *failingWriter) Write([]byte) (int, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func TestJSONL(t *testing.T) {
	Convey("Given a JSONL writer over a buffer", t, func() {
		var buf bytes.Buffer
		w := NewJSONL(&buf)

		w.Write(sample(event.Play, 1000))
		w.Write(sample(event.Pause, 2000))

		Convey("Each event is one line", func() {
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldStartWith, `{"type":"play"`)
		})

		Convey("The stream reads back", func() {
			events, err := ReadJSONL(strings.NewReader(buf.String() + "\n"))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[1].Type, ShouldEqual, event.Pause)
			So(events[1].Data.Timestamp, ShouldEqual, 2000)
		})
	})

	Convey("A broken line is reported with its number", t, func() {
		_, err := ReadJSONL(strings.NewReader("{\"type\":\"play\",\"data\":{}}\nnot json\n"))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldStartWith, "line 2")
	})

	Convey("An unknown event type is rejected", t, func() {
		_, err := ReadJSONL(strings.NewReader(`{"type":"click","data":{}}`))
		So(err, ShouldNotBeNil)
	})

	Convey("The first write error stops the writer", t, func() {
		f := &failingWriter{}
		w := NewJSONL(f)
		w.Write(sample(event.Play, 1))
		w.Write(sample(event.Play, 2))

		So(f.calls, ShouldEqual, 1)
		So(w.Err(), ShouldNotBeNil)
	})

	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)

		Convey("A created file round trips", func() {
			w, err := CreateJSONL("/out/events.jsonl")
			So(err, ShouldBeNil)
			w.Write(sample(event.Seek, 5))
			So(w.Close(), ShouldBeNil)

			events, err := OpenJSONL("/out/events.jsonl")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].Type, ShouldEqual, event.Seek)
		})

		Convey("A missing file is an error", func() {
			_, err := OpenJSONL("/nope.jsonl")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLogrus(t *testing.T) {
	Convey("Given a logger writing JSON", t, func() {
		var buf bytes.Buffer
		logger := logrus.New()
		logger.SetOutput(&buf)
		logger.SetFormatter(&logrus.JSONFormatter{})

		ev := sample(event.Seek, 3000)
		ev.Data.SeekInfo = &event.SeekInfo{FromTime: 3, ToTime: 40}
		Logrus(logger, logrus.InfoLevel)(ev)

		Convey("The entry carries the event fields", func() {
			out := buf.String()
			So(out, ShouldContainSubstring, `"type":"seek"`)
			So(out, ShouldContainSubstring, `"session":"s1"`)
			So(out, ShouldContainSubstring, `"to":40`)
		})

		Convey("Levels below the logger's are dropped", func() {
			buf.Reset()
			Logrus(logger, logrus.DebugLevel)(ev)
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

type fakePublisher struct {
	failures int
	subjects []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("no responders")
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNATS(t *testing.T) {
	Convey("Given a publisher", t, func() {
		conn := &fakePublisher{}
		n := NewNATS(conn, "vidtrack.events", 3)
		n.backoff = 0

		Convey("Events go to a per type subject", func() {
			So(n.Publish(sample(event.Play, 1)), ShouldBeNil)
			So(conn.subjects, ShouldResemble, []string{"vidtrack.events.play"})

			events, err := ReadJSONL(bytes.NewReader(conn.payloads[0]))
			So(err, ShouldBeNil)
			So(events[0].Data.SessionID, ShouldEqual, "s1")
		})

		Convey("Transient failures are retried", func() {
			conn.failures = 2
			So(n.Publish(sample(event.Pause, 1)), ShouldBeNil)
			So(conn.subjects, ShouldHaveLength, 1)
		})

		Convey("Persistent failures are returned", func() {
			conn.failures = 5
			err := n.Publish(sample(event.Pause, 1))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "3 attempts")

			So(func() { n.Write(sample(event.Pause, 1)) }, ShouldNotPanic)
		})

		Convey("Backoff only separates attempts", func() {
			var slept []time.Duration
			n.backoff = 10 * time.Millisecond
			n.sleep = func(d time.Duration) { slept = append(slept, d) }

			conn.failures = 5
			So(n.Publish(sample(event.Pause, 1)), ShouldNotBeNil)
			So(slept, ShouldResemble, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond})
		})

		Convey("An empty prefix publishes on the bare type", func() {
			So(NewNATS(conn, "", 0).Subject(sample(event.Ended, 1)), ShouldEqual, "ended")
		})
	})
}

// samples returns the observation count of the histogram called name.
func samples(m *Metrics, name string) uint64 {
	families, err := m.Registry().Gather()
	So(err, ShouldBeNil)

	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func TestMetrics(t *testing.T) {
	Convey("Given a metrics collector", t, func() {
		m := NewMetrics("html5")

		Convey("Events are counted by type", func() {
			m.Observe(sample(event.Play, 1))
			m.Observe(sample(event.Play, 2))
			m.Observe(sample(event.Pause, 3))

			So(testutil.ToFloat64(m.events.WithLabelValues("play")), ShouldEqual, 2)
			So(testutil.ToFloat64(m.events.WithLabelValues("pause")), ShouldEqual, 1)
		})

		Convey("Errors without a type count as unknown", func() {
			m.Observe(sample(event.Error, 1))
			ev := sample(event.Error, 2)
			ev.Data.ErrorInfo = &event.ErrorInfo{ErrorCode: 2, ErrorType: "MEDIA_ERR_NETWORK"}
			m.Observe(ev)

			So(testutil.ToFloat64(m.errors.WithLabelValues("unknown")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.errors.WithLabelValues("MEDIA_ERR_NETWORK")), ShouldEqual, 1)
		})

		Convey("Buffer windows are paired per session", func() {
			m.Observe(sample(event.BufferEnd, 500))
			m.Observe(sample(event.BufferStart, 1000))
			m.Observe(sample(event.BufferEnd, 3000))

			So(samples(m, "vidtrack_buffer_duration_seconds"), ShouldEqual, 1)
			So(m.bufferStart, ShouldBeEmpty)
		})

		Convey("Progress sets the completion gauge", func() {
			ev := sample(event.Progress, 1)
			ev.Data.ProgressInfo = &event.ProgressInfo{PercentComplete: 42.5}
			m.Observe(ev)

			So(testutil.ToFloat64(m.completion.WithLabelValues("s1")), ShouldEqual, 42.5)
		})

		Convey("Every series is registered", func() {
			m.Observe(sample(event.Play, 1))
			n, err := testutil.GatherAndCount(m.Registry(), "vidtrack_events_total")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			n, err = testutil.GatherAndCount(m.Registry())
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})
	})
}

func TestDedup(t *testing.T) {
	Convey("Given a dedup filter", t, func() {
		var c collector
		d, err := NewDedup(2, c.sink)
		So(err, ShouldBeNil)

		Convey("Repeated events are dropped", func() {
			d.Write(sample(event.Play, 1))
			d.Write(sample(event.Play, 1))
			d.Write(sample(event.Pause, 1))

			So(c.events, ShouldHaveLength, 2)
			So(d.Dropped(), ShouldEqual, 1)
		})

		Convey("Only the most recent keys are remembered", func() {
			d.Write(sample(event.Play, 1))
			d.Write(sample(event.Play, 2))
			d.Write(sample(event.Play, 3))
			d.Write(sample(event.Play, 1))

			So(c.events, ShouldHaveLength, 4)
		})

		Convey("The key distinguishes sessions", func() {
			other := sample(event.Play, 1)
			other.Data.SessionID = "s2"
			So(Key(other), ShouldNotEqual, Key(sample(event.Play, 1)))
		})
	})
}
