package config

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Load reads config.json from path, overlaying it onto the defaults. Only
// these fields are taken from the file, and only when set (non-zero):
// security max command length, blocked commands, blocked patterns,
// execution default timeout, aux sink port and preferred terminal; every
// other field keeps its default. A missing or malformed file is not fatal: the process starts with
// defaults, matching the "corrupt files on startup ⇒ empty store, no
// crash" posture used throughout this gateway's persisted stores (§9).
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("config.load_failed", "path", path, "error", err)
		}
		return cfg
	}

	var overlay Config
	if err := json.Unmarshal(data, &overlay); err != nil {
		slog.Warn("config.parse_failed", "path", path, "error", err)
		return cfg
	}

	if overlay.Security.MaxCommandLength > 0 {
		cfg.Security.MaxCommandLength = overlay.Security.MaxCommandLength
	}
	if len(overlay.Security.BlockedCommands) > 0 {
		cfg.Security.BlockedCommands = overlay.Security.BlockedCommands
	}
	if len(overlay.Security.BlockedPatterns) > 0 {
		cfg.Security.BlockedPatterns = overlay.Security.BlockedPatterns
	}
	if overlay.Execution.DefaultTimeout > 0 {
		cfg.Execution.DefaultTimeout = overlay.Execution.DefaultTimeout
	}
	if overlay.AuxSink.Port > 0 {
		cfg.AuxSink.Port = overlay.AuxSink.Port
	}
	if overlay.Terminal.Preferred != "" {
		cfg.Terminal.Preferred = overlay.Terminal.Preferred
	}

	return cfg
}
