// Package health implements startup housekeeping and the self_check tool
// (spec §4.11).
package health

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepOrphans removes files under tempDir whose names begin with one of
// prefixes and whose modification instant is older than maxAge. Runs once
// at startup (spec §4.11).
func SweepOrphans(tempDir string, prefixes []string, maxAge time.Duration) int {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		slog.Warn("orphan sweep: cannot read temp dir", "dir", tempDir, "error", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !hasAnyPrefix(entry.Name(), prefixes) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	if removed > 0 {
		slog.Info("orphan sweep removed stale files", "count", removed, "dir", tempDir)
	}
	return removed
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
