package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Runner executes a watch rule's command when it fires. Watchers log the
// outcome but never feed it into the shared CommandResult store (spec §3
// "Relationships": "Watchers trigger executions but do not attach
// CommandResults into the shared store").
type Runner func(ctx context.Context, command, workingDir string) (stdout, stderr string, exitCode int, err error)

type tracked struct {
	rule     Rule
	watchDir string
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	mu       sync.Mutex // guards debounce bookkeeping independent of Engine.mu
}

// Engine is the central actor holding every active rule's subscription.
// Every active rule owns exactly one underlying OS file-event subscription;
// cancelling a rule releases it on all exit paths (spec §4.6).
type Engine struct {
	mu    sync.RWMutex
	rules map[string]*tracked
	run   Runner
}

// New builds a watch engine that runs triggered commands via run.
func New(run Runner) *Engine {
	return &Engine{rules: make(map[string]*tracked), run: run}
}

// Add validates the path, opens a watch subscription (on the parent
// directory if the target is a file), and starts the dispatch loop.
func (e *Engine) Add(rule Rule) (string, error) {
	target := rule.Path
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("watch path %q: %w", target, err)
	}

	watchDir := target
	if !info.IsDir() {
		watchDir = filepath.Dir(target)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(watchDir); err != nil {
		watcher.Close()
		return "", fmt.Errorf("subscribe to %q: %w", watchDir, err)
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.Active = true

	ctx, cancel := context.WithCancel(context.Background())
	t := &tracked{rule: rule, watchDir: watchDir, watcher: watcher, cancel: cancel}

	e.mu.Lock()
	e.rules[rule.ID] = t
	e.mu.Unlock()

	go e.dispatchLoop(ctx, t)

	return rule.ID, nil
}

// dispatchLoop is the per-rule event pump: on a matching event it applies
// the rule's debounce window before running the command. A debounce of 0
// allows overlapping dispatches (spec §5 "Ordering guarantees").
func (e *Engine) dispatchLoop(ctx context.Context, t *tracked) {
	defer t.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			e.handleEvent(ctx, t, event)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch rule error", "rule", t.rule.ID, "label", t.rule.Label, "error", err)
		}
	}
}

// handleEvent applies the rule's debounce window first; only a event that
// survives debounce goes on to the extension filter, which (when set) is
// evaluated against every file in the watched directory modified since the
// debounce window opened — not just the single event that tripped it,
// since fsnotify can coalesce or drop intermediate events for sibling
// files during that window (spec §4.6).
func (e *Engine) handleEvent(ctx context.Context, t *tracked, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Remove|fsnotify.Create) == 0 {
		return
	}

	e.mu.RLock()
	current, live := e.rules[t.rule.ID]
	e.mu.RUnlock()
	if !live || !current.rule.Active {
		return
	}

	t.mu.Lock()
	now := time.Now()
	if current.rule.Debounce > 0 && now.Sub(current.rule.LastTrigger) < current.rule.Debounce {
		t.mu.Unlock()
		return
	}

	if len(current.rule.Extensions) > 0 {
		since := now.Add(-current.rule.Debounce - time.Second)
		if !hasRecentMatch(t.watchDir, current.rule, since) {
			t.mu.Unlock()
			return
		}
	}

	current.rule.LastTrigger = now
	command, workingDir := current.rule.Command, current.rule.WorkingDir
	t.mu.Unlock()

	go func() {
		stdout, stderr, exitCode, err := e.run(ctx, command, workingDir)
		if err != nil {
			slog.Error("watch rule run failed", "rule", t.rule.ID, "label", t.rule.Label, "error", err)
			return
		}
		slog.Info("watch rule triggered",
			"rule", t.rule.ID, "label", t.rule.Label, "event", event.Name,
			"exitCode", exitCode, "stdoutLen", len(stdout), "stderrLen", len(stderr))
	}()
}

// hasRecentMatch enumerates watchDir for files modified at or after since
// that match rule's extension filter, reporting whether any exist.
func hasRecentMatch(watchDir string, rule Rule, since time.Time) bool {
	entries, err := os.ReadDir(watchDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() || !rule.matchesExtension(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(since) {
			return true
		}
	}
	return false
}

// Pause deactivates a rule without releasing its subscription.
func (e *Engine) Pause(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.rules[id]
	if !ok {
		return fmt.Errorf("no watch rule %q", id)
	}
	t.rule.Active = false
	return nil
}

// Resume reactivates a paused rule.
func (e *Engine) Resume(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.rules[id]
	if !ok {
		return fmt.Errorf("no watch rule %q", id)
	}
	t.rule.Active = true
	return nil
}

// Remove cancels a rule's dispatch loop and releases its subscription.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	t, ok := e.rules[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("no watch rule %q", id)
	}
	delete(e.rules, id)
	e.mu.Unlock()

	t.cancel()
	return nil
}

// RemoveAll cancels every rule's dispatch loop and releases every
// subscription.
func (e *Engine) RemoveAll() {
	e.mu.Lock()
	rules := e.rules
	e.rules = make(map[string]*tracked)
	e.mu.Unlock()

	for _, t := range rules {
		t.cancel()
	}
}

// List returns a snapshot of every rule.
func (e *Engine) List() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Rule, 0, len(e.rules))
	for _, t := range e.rules {
		out = append(out, t.rule)
	}
	return out
}
