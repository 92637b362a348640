package execsubstrate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
)

// ErrMissingIdentityFile is the distinguished error kind for an SSH target
// naming an identity file that does not exist on disk (spec §4.2).
var ErrMissingIdentityFile = fmt.Errorf("identity file not found")

// SSHTarget is the resolved set of connection parameters for one SSH
// execution. Callers (the catalogue's ssh tools) resolve this either from a
// stored SSHProfile or from per-call arguments; the substrate itself never
// reads the profile store.
type SSHTarget struct {
	Host         string
	User         string
	Port         int // 0 defaults to 22
	IdentityFile string
	RemoteDir    string
}

// SSH invokes the host's ssh client as a subprocess, forcing non-interactive
// key authentication, a configurable connect timeout, and automatic
// acceptance of new host keys on first sight (spec §4.2 "SSH execution").
// Password authentication is never offered.
func (s *Substrate) SSH(ctx context.Context, target SSHTarget, command string, timeout time.Duration) (*resultstore.CommandResult, error) {
	if err := s.security.Check(command); err != nil {
		return nil, err
	}
	if target.IdentityFile != "" {
		if _, err := os.Stat(target.IdentityFile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingIdentityFile, target.IdentityFile)
		}
	}
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := s.runSSH(ctx, target, command)

	result := &resultstore.CommandResult{
		ID:        uuid.NewString(),
		Command:   command,
		Stdout:    out.Stdout,
		Stderr:    out.Stderr,
		ExitCode:  out.ExitCode,
		Completed: time.Now().UTC(),
	}
	s.results.Put(result)
	return result, nil
}

func (s *Substrate) runSSH(ctx context.Context, target SSHTarget, command string) ExecOutput {
	port := target.Port
	if port <= 0 {
		port = 22
	}

	connectTimeout := s.sshConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}

	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", fmt.Sprintf("ConnectTimeout=%d", int(connectTimeout.Seconds())),
		"-p", strconv.Itoa(port),
	}
	if target.IdentityFile != "" {
		args = append(args, "-i", target.IdentityFile)
	}
	args = append(args, fmt.Sprintf("%s@%s", target.User, target.Host))

	remote := command
	if target.RemoteDir != "" {
		remote = fmt.Sprintf("cd %s && %s", shellQuote(target.RemoteDir), command)
	}
	args = append(args, remote)

	cmd := exec.CommandContext(ctx, "ssh", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	timedOut := false
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			timedOut = true
			exitCode = -1
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return ExecOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		TimedOut: timedOut,
	}
}
