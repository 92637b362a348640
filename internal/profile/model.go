// Package profile stores named workspace profiles: working directory,
// default command list, environment overlay, and preferred terminal (spec
// §3 "WorkspaceProfile", §4.8).
package profile

import "time"

// Profile is a named bundle of workspace defaults.
type Profile struct {
	Name             string            `json:"name"`
	WorkingDirectory string            `json:"workingDirectory"`
	DefaultCommands  []string          `json:"defaultCommands,omitempty"`
	Environment      map[string]string `json:"environment,omitempty"`
	Terminal         string            `json:"terminal,omitempty"`
	Created          time.Time         `json:"created"`
	LastUsed         time.Time         `json:"lastUsed"`
}
