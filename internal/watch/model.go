// Package watch implements the reactive file-watch engine: rules that run
// a command when a watched path changes, debounced, backed by one
// fsnotify subscription per active rule (spec §3 "WatchRule", §4.6).
package watch

import (
	"strings"
	"time"
)

// Rule is a reactive trigger: run Command whenever Path changes, subject
// to Debounce and optional Extensions filtering.
type Rule struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Extensions  []string      `json:"extensions,omitempty"` // empty = no filter
	Command     string        `json:"command"`
	WorkingDir  string        `json:"workingDirectory,omitempty"`
	Debounce    time.Duration `json:"debounce"`
	Label       string        `json:"label,omitempty"`
	Active      bool          `json:"active"`
	LastTrigger time.Time     `json:"lastTrigger,omitempty"`
}

func (r Rule) matchesExtension(name string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	for _, ext := range r.Extensions {
		if hasSuffixFold(name, ext) {
			return true
		}
	}
	return false
}

func hasSuffixFold(name, ext string) bool {
	if len(ext) == 0 || len(ext) > len(name) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ext):], ext)
}
