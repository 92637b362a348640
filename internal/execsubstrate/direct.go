package execsubstrate

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
)

// ExecOutput is the raw (stdout, stderr, exitCode) triple every channel
// produces (spec §4.2).
type ExecOutput struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
}

// Direct spawns a shell interpreter with the command as its single
// argument, captures both streams via pipes, waits, and collects the
// native exit status.
func (s *Substrate) Direct(ctx context.Context, command, workingDir string, timeout time.Duration) (*resultstore.CommandResult, error) {
	if err := s.security.Check(command); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := s.runDirect(ctx, command, workingDir)

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

// runDirect does the actual spawn/capture/wait, honouring ctx cancellation
// by killing the subprocess and returning a partial result (spec §5
// "Cancellation & timeouts").
func (s *Substrate) runDirect(ctx context.Context, command, workingDir string) ExecOutput {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

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
