package execsubstrate

import (
	"time"

	"github.com/devbridge/workbench-gateway/internal/classifier"
	"github.com/devbridge/workbench-gateway/internal/config"
	"github.com/devbridge/workbench-gateway/internal/hostauto"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
)

// Substrate composes the security gate, classifier, result store and host
// automation collaborator behind the three execution channels (direct,
// terminal-mediated, SSH) described in spec §4.2.
type Substrate struct {
	security *SecurityGate
	results  *resultstore.Store
	auto     hostauto.Automation

	tempDir      string
	scriptPrefix string
	outputPrefix string

	defaultTimeout    time.Duration
	completionPoll    time.Duration
	completionTimeout time.Duration
	sshConnectTimeout time.Duration
}

// New builds a Substrate from configuration.
func New(cfg *config.Config, results *resultstore.Store, auto hostauto.Automation) (*Substrate, error) {
	gate, err := NewSecurityGate(&cfg.Security)
	if err != nil {
		return nil, err
	}
	return &Substrate{
		security:          gate,
		results:           results,
		auto:              auto,
		tempDir:           cfg.Dirs.TempDir,
		scriptPrefix:      cfg.Execution.ScriptPrefix,
		outputPrefix:      cfg.Execution.OutputPrefix,
		defaultTimeout:    cfg.Execution.DefaultTimeout,
		completionPoll:    cfg.Execution.CompletionPollInterval,
		completionTimeout: cfg.Execution.CompletionTimeout,
		sshConnectTimeout: cfg.Execution.SSHConnectTimeout,
	}, nil
}

// Classify exposes the interactive-command classifier so callers (the
// catalogue's tool handlers) can consult it before choosing a channel.
func (s *Substrate) Classify(command string) classifier.Verdict {
	return classifier.Classify(command)
}

// CheckBlocked runs command through the security gate's configured
// blocked-commands/blocked-patterns rules without dispatching it, so a
// caller can surface classifier.Blocked ahead of the interactive/cautious/
// safe verdict (spec §4.9). It returns nil when the command is not blocked.
func (s *Substrate) CheckBlocked(command string) error {
	return s.security.Check(command)
}
