package resultstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store is the concurrency-safe CommandResult index. Within a single Store,
// operations are linearisable (spec §5); it is the sole owner of the
// in-memory map for the lifetime of the process.
type Store struct {
	mu      sync.RWMutex
	results map[string]*CommandResult
	last    *CommandResult

	tempDir      string
	outputPrefix string
}

// New creates a Store that falls back to reading `<tempDir>/<outputPrefix><id>.json`
// files on a miss (the terminal-mediated execution channel's result files, §4.2).
func New(tempDir, outputPrefix string) *Store {
	return &Store{
		results:      make(map[string]*CommandResult),
		tempDir:      tempDir,
		outputPrefix: outputPrefix,
	}
}

// Put records a completed CommandResult and updates the "last" alias.
func (s *Store) Put(r *CommandResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.ID] = r
	s.last = r
}

// Get retrieves a CommandResult by id, or the alias "last". On a memory
// miss for a concrete id, it falls back to the on-disk result file; on a
// miss in both places it returns a "not found" message listing the most
// recent five on-disk result filenames — a debugging contract that must be
// preserved verbatim (spec §4.3).
func (s *Store) Get(id string) (*CommandResult, string) {
	s.mu.RLock()
	if id == LastAlias {
		r := s.last
		s.mu.RUnlock()
		if r == nil {
			return nil, "no commands have been executed yet"
		}
		return r, ""
	}
	if r, ok := s.results[id]; ok {
		s.mu.RUnlock()
		return r, ""
	}
	s.mu.RUnlock()

	if r, err := s.readFromDisk(id); err == nil {
		s.mu.Lock()
		s.results[id] = r
		s.mu.Unlock()
		return r, ""
	}

	return nil, s.notFoundMessage(id)
}

func (s *Store) readFromDisk(id string) (*CommandResult, error) {
	path := filepath.Join(s.tempDir, s.outputPrefix+id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r CommandResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result file %s: %w", path, err)
	}
	return &r, nil
}

func (s *Store) notFoundMessage(id string) string {
	recent := s.recentResultFiles(5)
	msg := fmt.Sprintf("command result not found: %s", id)
	if len(recent) > 0 {
		msg += fmt.Sprintf(" (most recent on-disk results: %v)", recent)
	}
	return msg
}

// recentResultFiles lists up to n of the newest result filenames under the
// temp dir, newest first.
func (s *Store) recentResultFiles(n int) []string {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return nil
	}

	type fileInfo struct {
		name    string
		modTime time.Time
	}
	var candidates []fileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) <= len(s.outputPrefix) || name[:len(s.outputPrefix)] != s.outputPrefix {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, fileInfo{name: name, modTime: info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}
