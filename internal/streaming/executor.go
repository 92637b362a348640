package streaming

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Executor runs a command in the background while progressively surfacing
// its output (spec §4.5).
type Executor struct {
	tempDir string
}

// New builds a streaming Executor that stages its log/exit-code files
// under tempDir.
func New(tempDir string) *Executor {
	return &Executor{tempDir: tempDir}
}

// Run starts command, then polls every updateInterval for new output or
// completion, up to maxDuration. An explicit maxDuration <= 0 means "return
// after the first poll with whatever has accumulated so far" (spec §8) —
// the caller, not Run, is responsible for turning "argument omitted" into
// DefaultMaxDuration before calling in (same for updateInterval and
// DefaultUpdateInterval). Cleanup removes both staging files on every exit
// path.
func (e *Executor) Run(ctx context.Context, command, workingDir string, updateInterval, maxDuration time.Duration) Result {
	id := uuid.NewString()
	logPath := filepath.Join(e.tempDir, "claude_stream_"+id+".log")
	exitPath := logPath + ".exit"
	defer os.Remove(logPath)
	defer os.Remove(exitPath)

	script := buildScript(command, workingDir, logPath, exitPath)
	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1, IsError: true, Updates: []Update{{Text: fmt.Sprintf("failed to start: %v", err)}}}
	}
	go cmd.Wait() // reap in the background; ctx cancellation kills the bash process (not its children)

	start := time.Now()
	var offset int64
	var updates []Update
	var totalBytes int64

	poll := func() (code int, done bool) {
		chunk, newOffset := readNewBytes(logPath, offset)
		totalBytes += int64(len(chunk))
		offset = newOffset

		code, done = readExitCode(exitPath)
		if chunk != "" {
			updates = append(updates, Update{Elapsed: time.Since(start), Text: chunk})
		} else if !done {
			updates = append(updates, Update{Elapsed: time.Since(start), Text: "(still running)"})
		}
		return code, done
	}

	if maxDuration <= 0 {
		code, done := poll()
		if done {
			return e.finish(updates, code, time.Since(start), totalBytes, false)
		}
		return e.finish(updates, -1, time.Since(start), totalBytes, true)
	}

	deadline := start.Add(maxDuration)

	// A ticker panics on a non-positive period; this floor is a safety net
	// against that, not a substitute for the caller's default.
	tickEvery := updateInterval
	if tickEvery <= 0 {
		tickEvery = time.Millisecond
	}
	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.finish(updates, -1, time.Since(start), totalBytes, true)
		case <-ticker.C:
		}

		if code, done := poll(); done {
			return e.finish(updates, code, time.Since(start), totalBytes, false)
		}

		if time.Now().After(deadline) {
			return e.finish(updates, -1, time.Since(start), totalBytes, true)
		}
	}
}

func (e *Executor) finish(updates []Update, exitCode int, duration time.Duration, totalBytes int64, timedOut bool) Result {
	banner := fmt.Sprintf("completed: exit=%d duration=%s bytes=%d", exitCode, duration.Round(time.Millisecond), totalBytes)
	if timedOut {
		banner = fmt.Sprintf("still running after %s (max duration reached), %d bytes so far", duration.Round(time.Millisecond), totalBytes)
	}
	updates = append(updates, Update{Elapsed: duration, Text: banner})

	return Result{
		Updates:  updates,
		ExitCode: exitCode,
		Duration: duration,
		IsError:  exitCode != 0,
		TimedOut: timedOut,
	}
}

// buildScript wraps command so stdout/stderr are appended to logPath
// line-by-line via process substitution (preserving the command's own
// exit status, the same technique terminal-mediated execution uses), with
// the true exit code written to exitPath only after the command
// terminates.
func buildScript(command, workingDir, logPath, exitPath string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	if workingDir != "" {
		fmt.Fprintf(&b, "cd %s || exit 1\n", shellQuote(workingDir))
	}
	fmt.Fprintf(&b, "(\n%s\n) > >(while IFS= read -r line; do echo \"$line\" >> %s; done) 2> >(while IFS= read -r line; do echo \"$line\" >> %s; done)\n",
		command, shellQuote(logPath), shellQuote(logPath))
	b.WriteString("__exit_code=$?\n")
	b.WriteString("sleep 0.05\n")
	fmt.Fprintf(&b, "echo \"$__exit_code\" > %s\n", shellQuote(exitPath))
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// readNewBytes reads logPath's content from offset to EOF, returning the
// chunk and the new offset. A missing file is treated as empty.
func readNewBytes(path string, offset int64) (string, int64) {
	f, err := os.Open(path)
	if err != nil {
		return "", offset
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() <= offset {
		return "", offset
	}

	if _, err := f.Seek(offset, 0); err != nil {
		return "", offset
	}
	buf := make([]byte, info.Size()-offset)
	n, _ := f.Read(buf)
	return string(buf[:n]), offset + int64(n)
}

// readExitCode reports whether exitPath exists and parses as an integer.
func readExitCode(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return code, true
}
