package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/devbridge/workbench-gateway/internal/diskstore"
)

// Store is the concurrency-safe, disk-mirrored set of workspace profiles.
// Names collide on exact match (spec §4.8 — unlike SSH profiles, which
// collide case-insensitively).
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	path     string
}

// New loads any existing profiles from path (best-effort) and returns a
// ready store.
func New(path string) *Store {
	s := &Store{profiles: make(map[string]*Profile), path: path}
	var loaded map[string]*Profile
	diskstore.Load(path, &loaded)
	for name, p := range loaded {
		s.profiles[name] = p
	}
	return s
}

// Save creates or replaces a profile.
func (s *Store) Save(p Profile) error {
	s.mu.Lock()
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
	s.profiles[p.Name] = &p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return diskstore.Save(s.path, snapshot)
}

// Load returns the named profile and bumps its last-used instant.
func (s *Store) Load(name string) (Profile, error) {
	s.mu.Lock()
	p, ok := s.profiles[name]
	if !ok {
		s.mu.Unlock()
		return Profile{}, fmt.Errorf("no workspace profile named %q", name)
	}
	p.LastUsed = time.Now().UTC()
	result := *p
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	err := diskstore.Save(s.path, snapshot)
	return result, err
}

// Delete removes a profile by name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	if _, ok := s.profiles[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("no workspace profile named %q", name)
	}
	delete(s.profiles, name)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return diskstore.Save(s.path, snapshot)
}

// List returns all profiles, ordered by name.
func (s *Store) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	sortProfilesByName(out)
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

func sortProfilesByName(profiles []Profile) {
	for i := 1; i < len(profiles); i++ {
		for j := i; j > 0 && profiles[j].Name < profiles[j-1].Name; j-- {
			profiles[j], profiles[j-1] = profiles[j-1], profiles[j]
		}
	}
}
