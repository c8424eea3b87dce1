package audit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupLayout suffixes rotated files; it sorts lexically in time order.
const backupLayout = "20060102-150405.000000000"

// RotationConfig configures history file rotation
type RotationConfig struct {
	MaxSize    int64 // bytes; zero disables rotation
	MaxBackups int   // rotated files kept; zero keeps all
}

func (r RotationConfig) due(size int64, next int) bool {
	return r.MaxSize > 0 && size > 0 && size+int64(next) > r.MaxSize
}

// rotate moves the current file aside and opens a fresh one. Caller holds mu.
func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil
	if err := os.Rename(l.path, l.path+"."+time.Now().UTC().Format(backupLayout)); err != nil {
		return err
	}
	if err := l.open(); err != nil {
		return err
	}
	if l.rotation.MaxBackups > 0 {
		return prune(l.path, l.rotation.MaxBackups)
	}
	return nil
}

// backups lists the rotated files of path, oldest first. Files that merely
// share the prefix are ignored.
func backups(path string) ([]string, error) {
	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, m := range matches {
		suffix := strings.TrimPrefix(m, path+".")
		if _, err := time.Parse(backupLayout, suffix); err == nil {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// prune removes the oldest backups beyond keep.
func prune(path string, keep int) error {
	files, err := backups(path)
	if err != nil {
		return err
	}
	for len(files) > keep {
		if err := os.Remove(files[0]); err != nil && !os.IsNotExist(err) {
			return err
		}
		files = files[1:]
	}
	return nil
}
