// Package log routes vidtrack's own logs to a dated file and owns the
// diagnostic channel trackers trace to.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/where"
)

// enabled reports whether file logging was switched on by Setup.
var enabled bool

// Setup opens today's log file when logs.write is set. Without it every
// package-level log call is discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(formatter())

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

func formatter() logrus.Formatter {
	if viper.GetBool(key.LogsJson) {
		return &logrus.JSONFormatter{PrettyPrint: true}
	}
	return &logrus.TextFormatter{}
}

var (
	diagnostic     *logrus.Logger
	diagnosticOnce sync.Once
)

// Diagnostic is the always-on stderr logger. Tracker debug traces and
// adapter warnings go here regardless of logs.write.
func Diagnostic() *logrus.Logger {
	diagnosticOnce.Do(func() {
		diagnostic = logrus.New()
		diagnostic.SetOutput(os.Stderr)
		diagnostic.SetLevel(logrus.DebugLevel)
		diagnostic.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	})
	return diagnostic
}

// SetDiagnosticOutput redirects the diagnostic channel, mostly for tests.
func SetDiagnosticOutput(w io.Writer) {
	Diagnostic().SetOutput(w)
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
