// Package sshprofile stores named SSH remote targets (spec §3 "SSHProfile",
// §4.8). Password authentication is never stored or transmitted by this
// core — only host/user/port/identity-file references.
package sshprofile

import "time"

// Profile is a named SSH remote target.
type Profile struct {
	Name          string    `json:"name"`
	Host          string    `json:"host"`
	User          string    `json:"user"`
	Port          int       `json:"port"`
	IdentityFile  string    `json:"identityFile,omitempty"`
	RemoteDir     string    `json:"remoteDir,omitempty"`
	Created       time.Time `json:"created"`
	LastUsed      time.Time `json:"lastUsed"`
}
