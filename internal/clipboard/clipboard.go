// Package clipboard wraps the host clipboard for the copy/read tool pair
// (spec §1 "the host's clipboard... services" — external collaborator,
// referenced only through the interface the core needs).
package clipboard

import "github.com/atotto/clipboard"

// Write places text on the host clipboard.
func Write(text string) error {
	return clipboard.WriteAll(text)
}

// Read returns the host clipboard's current text content.
func Read() (string, error) {
	return clipboard.ReadAll()
}
