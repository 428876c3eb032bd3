// Package history keeps the summaries of past replays.
package history

import (
	"errors"
	"sort"

	"github.com/metafates/gache"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/where"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved record keyed by session id.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the records newest first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(saved))
	for _, r := range saved {
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].SavedAt.Equal(records[j].SavedAt) {
			return records[i].SessionID < records[j].SessionID
		}
		return records[i].SavedAt.After(records[j].SavedAt)
	})
	return records, nil
}

// Save stores record under its session id, replacing an earlier one.
func Save(record *Record) error {
	if record.SessionID == "" {
		return errors.New("record has no session id")
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[record.SessionID] = record
	return cacher.Set(saved)
}

func Remove(sessionID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, sessionID)
	return cacher.Set(saved)
}

// Clear drops every record.
func Clear() error {
	return cacher.Set(make(map[string]*Record))
}
