// Package termsession tracks terminal session handles: named tabs/panes
// opened in a host terminal application via the host-automation
// collaborator (spec §3 "TerminalSession", §4.7 "Session Manager").
package termsession

import "time"

// Session is a named handle onto a tab/pane in one terminal application.
type Session struct {
	Name         string    `json:"name"`
	Terminal     string    `json:"terminal"`
	TabIndex     int       `json:"tabIndex"`
	Created      time.Time `json:"created"`
	LastCommand  time.Time `json:"lastCommand"`
	CommandCount int       `json:"commandCount"`
}
