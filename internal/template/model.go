// Package template stores reusable command skeletons with {{placeholder}}
// variables (spec §3 "CommandTemplate", §4.8).
package template

// Template is a named reusable command skeleton.
type Template struct {
	Name        string   `json:"name"`
	Command     string   `json:"command"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Variables   []string `json:"variables"`
}
