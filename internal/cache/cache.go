// Package cache removes expired files from the directories vidtrack fills
// on its own, such as session recordings.
package cache

import (
	"io/fs"
	"time"

	"github.com/spf13/viper"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/key"
	"github.com/vidtrack/vidtrack/log"
	"github.com/vidtrack/vidtrack/where"
)

// Prune removes regular files under dir last modified before now minus ttl.
// A missing dir is not an error.
func Prune(dir string, ttl time.Duration, now time.Time) (removed int, err error) {
	fsys := filesystem.API()

	exists, err := fsys.DirExists(dir)
	if err != nil || !exists {
		return 0, err
	}

	cutoff := now.Add(-ttl)
	err = fsys.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}

		if err := fsys.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})

	return removed, err
}

// CollectGarbage prunes the recordings directory using the configured ttl.
func CollectGarbage() {
	days := viper.GetInt(key.RecordingsTTL)
	if days <= 0 {
		return
	}

	removed, err := Prune(where.Recordings(), time.Duration(days)*24*time.Hour, time.Now())
	if err != nil {
		log.Warnf("prune recordings: %s", err)
		return
	}

	if removed > 0 {
		log.Infof("pruned %d recordings older than %d days", removed, days)
	}
}
