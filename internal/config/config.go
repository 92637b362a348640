// Package config holds the gateway's runtime configuration. Loading and
// validating the on-disk file is treated as a thin, best-effort concern —
// the authoritative schema lives with whatever operator tooling generates
// config.json; this package only needs enough structure to drive the core.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for the workbench gateway.
type Config struct {
	Security      SecurityConfig      `json:"security"`
	Execution     ExecutionConfig     `json:"execution"`
	AuxSink       AuxSinkConfig       `json:"aux_sink"`
	Notifications NotificationsConfig `json:"notifications"`
	Terminal      TerminalConfig      `json:"terminal"`
	Dirs          DirsConfig          `json:"-"`
}

// TerminalConfig names the host terminal application used when a tool call
// doesn't specify one explicitly (open_terminal_tab, the health self-check's
// "preferred terminal running" probe).
type TerminalConfig struct {
	Preferred string `json:"preferred"`
}

// SecurityConfig drives the execution substrate's security gate (§4.2).
type SecurityConfig struct {
	BlockedCommands  []string `json:"blocked_commands"`
	BlockedPatterns  []string `json:"blocked_patterns"`
	MaxCommandLength int      `json:"max_command_length"`
}

// ExecutionConfig controls timeouts and temp-file naming for the execution substrate.
type ExecutionConfig struct {
	DefaultTimeout         time.Duration `json:"default_timeout"`
	CompletionPollInterval time.Duration `json:"completion_poll_interval"`
	CompletionTimeout      time.Duration `json:"completion_timeout"`
	SSHConnectTimeout      time.Duration `json:"ssh_connect_timeout"`
	ScriptPrefix           string        `json:"script_prefix"`
	OutputPrefix           string        `json:"output_prefix"`
	StreamPrefix           string        `json:"stream_prefix"`
	OrphanAge              time.Duration `json:"orphan_age"`
}

// AuxSinkConfig configures the auxiliary TCP request sink (§5, §9 open question).
type AuxSinkConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Addr    string `json:"addr"`
}

// NotificationsConfig holds the default notification preference.
type NotificationsConfig struct {
	Enabled         bool          `json:"enabled"`
	Sound           bool          `json:"sound"`
	NotifyOnSuccess bool          `json:"notify_on_success"`
	NotifyOnFailure bool          `json:"notify_on_failure"`
	MinimumDuration time.Duration `json:"minimum_duration"`
}

// DirsConfig is derived, not persisted: the per-user config directory layout (§6).
type DirsConfig struct {
	ConfigDir string // e.g. ~/.config/workbench-gateway
	TempDir   string // system temp dir, shared by the execution substrate
}

// Default returns a Config populated with the defaults documented in spec §6/§9.
func Default() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		configDir = os.TempDir()
	}
	configDir = filepath.Join(configDir, "workbench-gateway")

	return &Config{
		Security: SecurityConfig{
			MaxCommandLength: 4000,
			BlockedCommands:  []string{},
			BlockedPatterns:  []string{},
		},
		Execution: ExecutionConfig{
			DefaultTimeout:         60 * time.Second,
			CompletionPollInterval: 500 * time.Millisecond,
			CompletionTimeout:      2 * time.Minute,
			SSHConnectTimeout:      30 * time.Second,
			ScriptPrefix:           "claude_script_",
			OutputPrefix:           "claude_output_",
			StreamPrefix:           "claude_stream_",
			OrphanAge:              24 * time.Hour,
		},
		AuxSink: AuxSinkConfig{
			Enabled: true,
			Port:    8765,
			Addr:    "127.0.0.1",
		},
		Notifications: NotificationsConfig{
			Enabled:         true,
			NotifyOnFailure: true,
			MinimumDuration: 10 * time.Second,
		},
		Terminal: TerminalConfig{
			Preferred: "Terminal",
		},
		Dirs: DirsConfig{
			ConfigDir: configDir,
			TempDir:   os.TempDir(),
		},
	}
}

// TemplatesPath returns the path to templates.json under the config dir.
func (c *Config) TemplatesPath() string { return filepath.Join(c.Dirs.ConfigDir, "templates.json") }

// ProfilesPath returns the path to profiles.json under the config dir.
func (c *Config) ProfilesPath() string { return filepath.Join(c.Dirs.ConfigDir, "profiles.json") }

// SSHProfilesPath returns the path to ssh_profiles.json under the config dir.
func (c *Config) SSHProfilesPath() string {
	return filepath.Join(c.Dirs.ConfigDir, "ssh_profiles.json")
}

// SnapshotsDir returns the path of the single JSON file (named "snapshots",
// no extension) that holds every environment snapshot; snapshots are not
// stored one file each.
func (c *Config) SnapshotsDir() string { return filepath.Join(c.Dirs.ConfigDir, "snapshots") }

// HistoryPath returns the path to the opaque history database file.
func (c *Config) HistoryPath() string { return filepath.Join(c.Dirs.ConfigDir, "history.db") }
