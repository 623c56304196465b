package watcher

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNoPaths is returned when the service has nothing to watch.
var ErrNoPaths = errors.New("watcher: no directories to watch")

// fileState is what we compare between checks to spot a rewritten file.
type fileState struct {
	modTime time.Time
	size    int64
}

// Service polls directories for timing files that appeared or changed.
type Service struct {
	paths []string
	mu    sync.Mutex
	seen  map[string]fileState
}

// NewService creates a monitor for the given directories. Files already present
// are treated as seen, so only later changes are reported.
func NewService(paths []string) (*Service, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Warn("Watcher: Directory does not exist yet", "path", path)
		}
	}

	s := &Service{
		paths: paths,
		seen:  make(map[string]fileState),
	}
	s.seen = s.scan()
	return s, nil
}

// CheckNew returns the timing files created or modified since the last check,
// sorted by path. It returns (nil, false) when nothing changed. Deleted files
// are forgotten so a later re-creation is reported again.
func (s *Service) CheckNew() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.scan()
	var changed []string
	for path, st := range current {
		prev, ok := s.seen[path]
		if !ok || !prev.modTime.Equal(st.modTime) || prev.size != st.size {
			changed = append(changed, path)
		}
	}
	s.seen = current

	if len(changed) == 0 {
		return nil, false
	}
	sort.Strings(changed)
	slog.Info("Watcher: Timing files changed", "count", len(changed))
	return changed, true
}

func (s *Service) scan() map[string]fileState {
	out := make(map[string]fileState)
	for _, dir := range s.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasSuffix(strings.ToLower(name), ".json") || strings.HasPrefix(name, ".") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			out[filepath.Join(dir, name)] = fileState{modTime: info.ModTime(), size: info.Size()}
		}
	}
	return out
}
