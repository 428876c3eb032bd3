package sink

import (
	"github.com/sirupsen/logrus"
	"github.com/vidtrack/vidtrack/event"
)

// Logrus logs every event at level as one structured entry.
func Logrus(logger *logrus.Logger, level logrus.Level) event.Sink {
	return func(ev event.VideoEvent) {
		entry := logger.WithFields(logrus.Fields{
			"type":        ev.Type,
			"session":     ev.Data.SessionID,
			"timestamp":   ev.Data.Timestamp,
			"currentTime": ev.Data.CurrentTime,
		})

		switch {
		case ev.Data.SeekInfo != nil:
			entry = entry.WithFields(logrus.Fields{"from": ev.Data.FromTime, "to": ev.Data.ToTime})
		case ev.Data.ErrorInfo != nil:
			entry = entry.WithFields(logrus.Fields{"code": ev.Data.ErrorCode, "error": ev.Data.ErrorMessage})
		case ev.Data.ProgressInfo != nil:
			entry = entry.WithField("percent", ev.Data.PercentComplete)
		}

		entry.Log(level, "video event")
	}
}
