package execsubstrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/devbridge/workbench-gateway/internal/classifier"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
)

// terminalResultFile is the shape the generated script writes atomically
// before touching the completion marker (spec §4.2, §6).
type terminalResultFile struct {
	ID        string `json:"id"`
	Command   string `json:"command"`
	Stdout    string `json:"stdout"`
	Stderr    string `json:"stderr"`
	ExitCode  int    `json:"exitCode"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

// DispatchTerminal writes the self-contained script for a terminal-mediated
// execution and hands its path to the host automation collaborator. It
// returns immediately with the assigned command id; the caller does not
// wait inline (spec §4.2).
//
// Callers of the execution substrate must consult the classifier first: on
// Interactive, this refuses and returns a formatted warning (spec §4.9).
func (s *Substrate) DispatchTerminal(ctx context.Context, command, workingDir string) (id string, err error) {
	if err := s.security.Check(command); err != nil {
		return "", err
	}

	verdict := classifier.Classify(command)
	if verdict.Level == classifier.Interactive {
		return "", fmt.Errorf("%s", verdict.Warning())
	}

	id = uuid.NewString()
	scriptPath := filepath.Join(s.tempDir, s.scriptPrefix+id+".sh")
	outputPath := s.outputPath(id)
	markerPath := outputPath + ".complete"

	script := s.buildScript(id, command, workingDir, outputPath, markerPath)
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write execution script: %w", err)
	}

	if _, err := s.auto.RunScriptedAction(ctx, scriptPath); err != nil {
		installed := s.auto.InstalledTerminals(ctx)
		if len(installed) > 0 {
			return "", fmt.Errorf("%w (installed terminals: %s)", err, strings.Join(installed, ", "))
		}
		return "", err
	}

	return id, nil
}

func (s *Substrate) outputPath(id string) string {
	return filepath.Join(s.tempDir, s.outputPrefix+id+".json")
}

// buildScript generates a shell script that preserves the original
// command's exit status. Process substitution (`>(tee ...)`) is used
// instead of a trailing pipe so `$?` after the command always reflects the
// command itself, never a pipeline's last stage — the critical contract of
// spec §4.2 ("Pipeline exit-code preservation").
func (s *Substrate) buildScript(id, command, workingDir, outputPath, markerPath string) string {
	stdoutFile := outputPath + ".stdout"
	stderrFile := outputPath + ".stderr"
	tmpOutput := outputPath + ".tmp"

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	if workingDir != "" {
		fmt.Fprintf(&b, "cd %s || exit 1\n", shellQuote(workingDir))
	}
	fmt.Fprintf(&b, "exec > >(tee %s) 2> >(tee %s >&2)\n", shellQuote(stdoutFile), shellQuote(stderrFile))
	b.WriteString(command + "\n")
	b.WriteString("__exit_code=$?\n")
	b.WriteString("sleep 0.05\n") // let the tee process substitutions flush before reading
	fmt.Fprintf(&b, "export __id=%s\n", shellQuote(id))
	fmt.Fprintf(&b, "export __command_b64=$(printf '%%s' %s | base64 | tr -d '\\n')\n", shellQuote(command))
	fmt.Fprintf(&b, "export __stdout_file=%s\n", shellQuote(stdoutFile))
	fmt.Fprintf(&b, "export __stderr_file=%s\n", shellQuote(stderrFile))
	b.WriteString("export __exit_code\n")
	b.WriteString("export __ts=$(date -u +%Y-%m-%dT%H:%M:%SZ)\n")
	fmt.Fprintf(&b, "python3 -c %s > %s\n", shellQuote(resultWriterScript), shellQuote(tmpOutput))
	fmt.Fprintf(&b, "mv %s %s\n", shellQuote(tmpOutput), shellQuote(outputPath))
	fmt.Fprintf(&b, "rm -f %s %s\n", shellQuote(stdoutFile), shellQuote(stderrFile))
	fmt.Fprintf(&b, "touch %s\n", shellQuote(markerPath))
	return b.String()
}

// resultWriterScript is the embedded Python body that assembles the JSON
// result file from the environment variables the shell wrapper exports.
// Using a tiny Python helper sidesteps hand-rolled JSON string escaping in
// bash, which is what the script is specifically trying to avoid getting
// wrong for the exit-code/output payload.
const resultWriterScript = `
import base64, json, os
stdout = open(os.environ["__stdout_file"]).read()
stderr = open(os.environ["__stderr_file"]).read()
command = base64.b64decode(os.environ["__command_b64"]).decode()
print(json.dumps({
    "id": os.environ["__id"],
    "command": command,
    "stdout": stdout,
    "stderr": stderr,
    "exitCode": int(os.environ["__exit_code"]),
    "timestamp": os.environ["__ts"],
}))
`

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// WaitForCompletion polls for the completion-marker file every
// CompletionPollInterval up to CompletionTimeout (spec §4.3 "Completion
// watcher"). On appearance it reads, parses, stores into the result index,
// deletes both files, and returns the result. Partial/corrupt result files
// are left in place so they remain diagnosable.
func (s *Substrate) WaitForCompletion(ctx context.Context, id string) (*resultstore.CommandResult, error) {
	outputPath := s.outputPath(id)
	markerPath := outputPath + ".complete"

	deadline := time.Now().Add(s.completionTimeout)
	ticker := time.NewTicker(s.completionPoll)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(markerPath); err == nil {
			return s.collectTerminalResult(id, outputPath, markerPath)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("still running")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Substrate) collectTerminalResult(id, outputPath, markerPath string) (*resultstore.CommandResult, error) {
	data, err := os.ReadFile(outputPath)
	if err != nil {
		// Corrupt/missing despite marker presence: leave artifacts for diagnosis.
		return nil, fmt.Errorf("read result file: %w", err)
	}

	var raw terminalResultFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode result file: %w", err)
	}

	completed, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		completed = time.Now().UTC()
	}

	result := &resultstore.CommandResult{
		ID:        id,
		Command:   raw.Command,
		Stdout:    raw.Stdout,
		Stderr:    raw.Stderr,
		ExitCode:  raw.ExitCode,
		Completed: completed,
	}
	s.results.Put(result)

	os.Remove(outputPath)
	os.Remove(markerPath)

	return result, nil
}
