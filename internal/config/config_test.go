package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPopulatesExecutionAndTerminal(t *testing.T) {
	cfg := Default()
	if cfg.Execution.DefaultTimeout <= 0 {
		t.Fatal("expected a positive default timeout")
	}
	if cfg.Terminal.Preferred == "" {
		t.Fatal("expected a default preferred terminal")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.Execution.ScriptPrefix != Default().Execution.ScriptPrefix {
		t.Fatal("expected defaults when config file is absent")
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	cfg := Load(path)
	if cfg.Security.MaxCommandLength != Default().Security.MaxCommandLength {
		t.Fatal("expected defaults when config file is malformed")
	}
}

func TestLoadOverlaysProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"aux_sink":{"port":9999},"terminal":{"preferred":"iTerm2"}}`), 0644)

	cfg := Load(path)
	if cfg.AuxSink.Port != 9999 {
		t.Fatalf("AuxSink.Port = %d, want 9999", cfg.AuxSink.Port)
	}
	if cfg.Terminal.Preferred != "iTerm2" {
		t.Fatalf("Terminal.Preferred = %q, want iTerm2", cfg.Terminal.Preferred)
	}
}
