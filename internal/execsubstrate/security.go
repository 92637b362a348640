// Package execsubstrate implements the three execution channels that share
// one external contract (spec §4.2): direct subprocess execution, terminal-
// mediated execution via a generated script handed to a host-automation
// collaborator, and SSH execution. All three pass through the same
// security gate first.
package execsubstrate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devbridge/workbench-gateway/internal/config"
)

// SecurityGate enforces the blocked-command/blocked-pattern/length limits
// from configuration before any of the three execution channels runs
// anything (spec §4.2 "Security gate").
type SecurityGate struct {
	blockedCommands []string
	blockedPatterns []*regexp.Regexp
	maxLength       int
}

// NewSecurityGate builds a gate from config.
func NewSecurityGate(cfg *config.SecurityConfig) (*SecurityGate, error) {
	g := &SecurityGate{
		blockedCommands: cfg.BlockedCommands,
		maxLength:       cfg.MaxCommandLength,
	}
	for _, p := range cfg.BlockedPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile blocked pattern %q: %w", p, err)
		}
		g.blockedPatterns = append(g.blockedPatterns, re)
	}
	return g, nil
}

// Check returns a policy error if cmd is blocked or too long, nil otherwise.
// Command text exceeding maxLength is rejected before any subprocess is
// created (spec §8 boundary behaviour).
func (g *SecurityGate) Check(cmd string) error {
	if g.maxLength > 0 && len(cmd) > g.maxLength {
		return fmt.Errorf("command exceeds maximum length of %d characters", g.maxLength)
	}
	for _, blocked := range g.blockedCommands {
		if blocked == "" {
			continue
		}
		if strings.Contains(cmd, blocked) {
			return fmt.Errorf("command blocked by configured command list: matches %q", blocked)
		}
	}
	for _, re := range g.blockedPatterns {
		if re.MatchString(cmd) {
			return fmt.Errorf("command blocked by configured pattern: %s", re.String())
		}
	}
	return nil
}
