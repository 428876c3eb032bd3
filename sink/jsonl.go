package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/filesystem"
	"github.com/vidtrack/vidtrack/log"
)

// JSONL writes one wire encoded event per line.
type JSONL struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	err    error
}

// NewJSONL writes to w. The caller keeps ownership of w.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{w: w}
}

// CreateJSONL truncates or creates the file at path.
func CreateJSONL(path string) (*JSONL, error) {
	if err := filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}

	file, err := filesystem.API().OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &JSONL{w: file, closer: file}, nil
}

// Write is the event.Sink of the writer. The first failure is kept and
// every later event is dropped.
func (j *JSONL) Write(ev event.VideoEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return
	}

	b, err := json.Marshal(ev)
	if err == nil {
		b = append(b, '\n')
		_, err = j.w.Write(b)
	}

	if err != nil {
		log.Errorf("jsonl sink: %s", err)
		j.err = err
	}
}

// Err returns the first write error.
func (j *JSONL) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Close closes the underlying file if the writer opened it.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closer == nil {
		return j.err
	}

	err := j.closer.Close()
	j.closer = nil
	if j.err != nil {
		return j.err
	}
	return err
}

// ReadJSONL decodes a stream written by JSONL. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]event.VideoEvent, error) {
	var events []event.VideoEvent

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}

		var ev event.VideoEvent
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := event.ParseType(string(ev.Type)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		events = append(events, ev)
	}

	return events, scanner.Err()
}

// OpenJSONL reads the whole file at path.
func OpenJSONL(path string) ([]event.VideoEvent, error) {
	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadJSONL(file)
}
