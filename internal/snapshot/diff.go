package snapshot

import (
	"sort"

	"github.com/google/go-cmp/cmp"
)

// Diff is the structured result of comparing two snapshots' environments:
// variables added going from Before to After, removed, and changed
// (old/new values).
type Diff struct {
	Added   map[string]string    `json:"added,omitempty"`
	Removed map[string]string    `json:"removed,omitempty"`
	Changed map[string][2]string `json:"changed,omitempty"`
	// Equal mirrors cmp.Equal(before.Env, after.Env) — a quick check the
	// structured fields above already imply, kept for callers that only
	// need a boolean.
	Equal bool `json:"equal"`
}

// Compare computes the environment diff between two snapshots.
func Compare(before, after Snapshot) Diff {
	d := Diff{
		Added:   map[string]string{},
		Removed: map[string]string{},
		Changed: map[string][2]string{},
		Equal:   cmp.Equal(before.Env, after.Env),
	}

	for k, v := range after.Env {
		old, existed := before.Env[k]
		if !existed {
			d.Added[k] = v
		} else if old != v {
			d.Changed[k] = [2]string{old, v}
		}
	}
	for k, v := range before.Env {
		if _, stillPresent := after.Env[k]; !stillPresent {
			d.Removed[k] = v
		}
	}

	if len(d.Added) == 0 {
		d.Added = nil
	}
	if len(d.Removed) == 0 {
		d.Removed = nil
	}
	if len(d.Changed) == 0 {
		d.Changed = nil
	}
	return d
}

// SortedKeys is a small rendering helper used by the catalogue's
// human-readable snapshot-diff tool output.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
