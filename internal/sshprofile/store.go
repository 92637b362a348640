package sshprofile

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devbridge/workbench-gateway/internal/diskstore"
)

// Store is the concurrency-safe, disk-mirrored set of SSH profiles. Names
// collide case-insensitively (spec §4.8) — unlike workspace profiles, which
// collide on exact match.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile // keyed by strings.ToLower(name)
	path     string
}

// New loads any existing SSH profiles from path (best-effort).
func New(path string) *Store {
	s := &Store{profiles: make(map[string]*Profile), path: path}
	var loaded map[string]*Profile
	diskstore.Load(path, &loaded)
	for key, p := range loaded {
		s.profiles[strings.ToLower(key)] = p
	}
	return s
}

// Save creates or replaces an SSH profile.
func (s *Store) Save(p Profile) error {
	if p.Port <= 0 {
		p.Port = 22
	}
	s.mu.Lock()
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
	s.profiles[strings.ToLower(p.Name)] = &p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return diskstore.Save(s.path, snapshot)
}

// Get returns the named profile (case-insensitive) and bumps its last-used
// instant.
func (s *Store) Get(name string) (Profile, error) {
	key := strings.ToLower(name)
	s.mu.Lock()
	p, ok := s.profiles[key]
	if !ok {
		s.mu.Unlock()
		return Profile{}, fmt.Errorf("no SSH profile named %q", name)
	}
	p.LastUsed = time.Now().UTC()
	result := *p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	err := diskstore.Save(s.path, snapshot)
	return result, err
}

// Delete removes an SSH profile by name (case-insensitive).
func (s *Store) Delete(name string) error {
	key := strings.ToLower(name)
	s.mu.Lock()
	if _, ok := s.profiles[key]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("no SSH profile named %q", name)
	}
	delete(s.profiles, key)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return diskstore.Save(s.path, snapshot)
}

// List returns all SSH profiles ordered by name.
func (s *Store) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Name < out[j-1].Name; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Store) snapshotLocked() map[string]*Profile {
	out := make(map[string]*Profile, len(s.profiles))
	for k, v := range s.profiles {
		cp := *v
		out[k] = &cp
	}
	return out
}
