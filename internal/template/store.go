package template

import (
	"fmt"
	"sync"

	"github.com/devbridge/workbench-gateway/internal/diskstore"
)

// Store is the concurrency-safe, disk-mirrored set of command templates.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
	path      string
}

// New loads any existing templates from path (best-effort).
func New(path string) *Store {
	s := &Store{templates: make(map[string]*Template), path: path}
	var loaded map[string]*Template
	diskstore.Load(path, &loaded)
	for name, tpl := range loaded {
		s.templates[name] = tpl
	}
	return s
}

// Save creates or replaces a template, computing its variable set from the
// command text.
func (s *Store) Save(name, command, description, category string) (Template, error) {
	tpl := Template{
		Name:        name,
		Command:     command,
		Description: description,
		Category:    category,
		Variables:   ExtractVariables(command),
	}

	s.mu.Lock()
	s.templates[name] = &tpl
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := diskstore.Save(s.path, snapshot); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// Get returns the named template.
func (s *Store) Get(name string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("no template named %q", name)
	}
	return *tpl, nil
}

// Delete removes a template by name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	if _, ok := s.templates[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("no template named %q", name)
	}
	delete(s.templates, name)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return diskstore.Save(s.path, snapshot)
}

// List returns templates ordered by name, optionally filtered by category
// (empty category returns all — a supplemented convenience over the source
// behaviour, spec SPEC_FULL §"Supplemented features").
func (s *Store) List(category string) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		if category != "" && tpl.Category != category {
			continue
		}
		out = append(out, *tpl)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Name < out[j-1].Name; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Store) snapshotLocked() map[string]*Template {
	out := make(map[string]*Template, len(s.templates))
	for k, v := range s.templates {
		cp := *v
		out[k] = &cp
	}
	return out
}
