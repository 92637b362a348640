// Package resultstore implements the canonical CommandResult index (spec
// §3, §4.3): a concurrency-safe map from command id to completed
// CommandResults, with a reserved "last" alias and a disk-backed fallback
// for ids that fell out of memory.
package resultstore

import "time"

// LastAlias is the reserved id that always points at the most recently
// stored CommandResult.
const LastAlias = "last"

// CommandResult is the canonical execution record (spec §3). Once visible
// in the store its exit code is always defined, and it is never mutated.
type CommandResult struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Stdout    string    `json:"stdout"`
	Stderr    string    `json:"stderr"`
	ExitCode  int       `json:"exitCode"`
	Completed time.Time `json:"completed"`
}
