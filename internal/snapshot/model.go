// Package snapshot stores immutable captures of the shell environment and
// diffs them against one another (spec §3 "EnvironmentSnapshot", §4.8).
package snapshot

import "time"

// Snapshot is an immutable capture of the shell environment at one instant.
type Snapshot struct {
	Name      string            `json:"name"`
	Env       map[string]string `json:"env"`
	Directory string            `json:"directory"`
	Captured  time.Time         `json:"captured"`
}
