package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/newtron-network/bondaudit/pkg/util"
)

// maxLine bounds a single history entry; a run over many bonds can be large.
const maxLine = 4 * 1024 * 1024

// Logger records audit runs and answers history queries.
type Logger interface {
	Log(event *Event) error
	Query(filter Filter) ([]*Event, error)
	Close() error
}

// FileLogger appends runs to a JSON-lines file and rotates it by size.
// Queries read the rotated backups too, oldest first.
type FileLogger struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	size     int64
	rotation RotationConfig
}

// NewFileLogger opens (creating if needed) the history file at path.
func NewFileLogger(path string, rotation RotationConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating audit history directory: %w", err)
	}
	l := &FileLogger{path: path, rotation: rotation}
	if err := l.open(); err != nil {
		return nil, fmt.Errorf("opening audit history: %w", err)
	}
	return l, nil
}

func (l *FileLogger) open() error {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	l.file = file
	l.size = info.Size()
	return nil
}

// Log appends one run. The file is rotated first when the entry would take
// it past MaxSize, so a backup never holds a partial entry.
func (l *FileLogger) Log(event *Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding audit event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return os.ErrClosed
	}
	if l.rotation.due(l.size, len(line)) {
		if err := l.rotate(); err != nil {
			return fmt.Errorf("rotating audit history: %w", err)
		}
	}
	n, err := l.file.Write(line)
	l.size += int64(n)
	return err
}

// Query returns the runs matching filter in the order they were logged.
// With a Limit only the most recent runs are kept.
func (l *FileLogger) Query(filter Filter) ([]*Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	files, err := backups(l.path)
	if err != nil {
		return nil, err
	}
	files = append(files, l.path)

	events := []*Event{}
	for _, path := range files {
		events, err = readEvents(path, filter, events)
		if err != nil {
			return nil, err
		}
	}
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[len(events)-filter.Limit:]
	}
	return events, nil
}

func readEvents(path string, filter Filter, events []*Event) ([]*Event, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return events, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		event := &Event{}
		if err := json.Unmarshal(scanner.Bytes(), event); err != nil {
			util.Warnf("audit: skipping malformed entry %s:%d: %v", filepath.Base(path), lineNum, err)
			continue
		}
		if filter.match(event) {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return events, nil
}

// Close closes the history file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// SetDefaultLogger sets the logger used by Log and Query. nil disables
// history.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func current() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Log records event with the default logger; a no-op when none is set.
func Log(event *Event) error {
	if l := current(); l != nil {
		return l.Log(event)
	}
	return nil
}

// Query queries the default logger; empty when none is set.
func Query(filter Filter) ([]*Event, error) {
	if l := current(); l != nil {
		return l.Query(filter)
	}
	return []*Event{}, nil
}
