// Package diskstore holds the small atomic-write/best-effort-load helpers
// shared by every disk-mirrored store (profiles, templates, SSH profiles,
// snapshots — spec §4.8): "Writes mirror to a JSON file... reads on
// startup populate from that file (best-effort: malformed files cause an
// empty start, not a crash)." The in-memory copy stays authoritative; disk
// is purely a best-effort mirror.
package diskstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save atomically writes v as pretty-printed JSON to path (temp file in the
// same directory, then rename), matching the teacher's session-persistence
// idiom.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}

// Load best-effort populates v from path. A missing or malformed file
// leaves v untouched and returns no error — the store starts empty rather
// than failing startup.
func Load(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}
