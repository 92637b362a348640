package termsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devbridge/workbench-gateway/internal/hostauto"
)

// Manager tracks live terminal sessions and drives them through the host
// automation collaborator. Tab indices are assigned per terminal identifier
// and never reused for the life of the process, even once a session with
// that index is closed (spec §3 "TerminalSession" invariants).
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // name -> session
	tabIDs   map[string]string   // name -> host tab identifier
	nextTab  map[string]int      // terminal -> next tab index
	auto     hostauto.Automation
}

// NewManager builds a session manager bound to the given automation
// collaborator.
func NewManager(auto hostauto.Automation) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		tabIDs:   make(map[string]string),
		nextTab:  make(map[string]int),
		auto:     auto,
	}
}

// Open creates a new named session, runs scriptPath in a fresh tab via the
// automation collaborator, and records its monotonic tab index. terminal
// is recorded on the session and keys the tab-index counter; it is not
// passed to the automation collaborator, which picks the terminal itself.
func (m *Manager) Open(ctx context.Context, name, terminal, scriptPath string) (*Session, error) {
	m.mu.Lock()
	if _, exists := m.sessions[name]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("session %q already exists", name)
	}
	tabIndex := m.nextTab[terminal]
	m.mu.Unlock()

	tabID, err := m.auto.RunScriptedAction(ctx, scriptPath)
	if err != nil {
		return nil, fmt.Errorf("open session %q: %w", name, err)
	}

	now := time.Now().UTC()
	session := &Session{
		Name:        name,
		Terminal:    terminal,
		TabIndex:    tabIndex,
		Created:     now,
		LastCommand: now,
	}

	m.mu.Lock()
	m.sessions[name] = session
	m.tabIDs[name] = tabID
	m.nextTab[terminal] = tabIndex + 1
	m.mu.Unlock()

	return session, nil
}

// Send types text into an existing session's tab and bumps its command
// counter and last-command instant.
func (m *Manager) Send(ctx context.Context, name, text string) error {
	m.mu.RLock()
	session, ok := m.sessions[name]
	tabID := m.tabIDs[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no session named %q", name)
	}

	if err := m.auto.SendToTab(ctx, tabID, text); err != nil {
		return fmt.Errorf("send to session %q: %w", name, err)
	}

	m.mu.Lock()
	session.LastCommand = time.Now().UTC()
	session.CommandCount++
	m.mu.Unlock()
	return nil
}

// Close closes the session's tab and removes it from the live set. The
// terminal's tab-index counter is never rolled back.
func (m *Manager) Close(ctx context.Context, name string) error {
	m.mu.Lock()
	tabID, ok := m.tabIDs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no session named %q", name)
	}

	err := m.auto.CloseTab(ctx, tabID)

	m.mu.Lock()
	delete(m.sessions, name)
	delete(m.tabIDs, name)
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("close session %q: %w", name, err)
	}
	return nil
}

// List returns a snapshot of all live sessions, ordered by creation time.
func (m *Manager) List() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Created.Before(out[j-1].Created); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Get returns a copy of the named session, if live.
func (m *Manager) Get(name string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[name]
	if !ok {
		return Session{}, false
	}
	return *s, true
}
