package streaming

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	e := New(t.TempDir())
	result := e.Run(context.Background(), "echo line1; echo line2; exit 2", "", 30*time.Millisecond, 3*time.Second)

	if result.ExitCode != 2 {
		t.Fatalf("ExitCode = %d, want 2", result.ExitCode)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for non-zero exit code")
	}

	var combined strings.Builder
	for _, u := range result.Updates {
		combined.WriteString(u.Text)
	}
	out := combined.String()
	if !strings.Contains(out, "line1") || !strings.Contains(out, "line2") {
		t.Fatalf("expected captured output to include both lines, got: %q", out)
	}
}

func TestRunLastUpdateIsCompletionBanner(t *testing.T) {
	e := New(t.TempDir())
	result := e.Run(context.Background(), "echo hi", "", 20*time.Millisecond, 2*time.Second)
	if len(result.Updates) == 0 {
		t.Fatal("expected at least one update")
	}
	last := result.Updates[len(result.Updates)-1]
	if !strings.Contains(last.Text, "completed:") {
		t.Fatalf("expected final update to be a completion banner, got: %q", last.Text)
	}
}

func TestRunTimesOutAtMaxDuration(t *testing.T) {
	e := New(t.TempDir())
	result := e.Run(context.Background(), "sleep 5", "", 20*time.Millisecond, 60*time.Millisecond)
	if !result.TimedOut {
		t.Fatal("expected TimedOut=true when max duration is reached")
	}
}

func TestRunZeroMaxDurationReturnsAfterFirstPoll(t *testing.T) {
	e := New(t.TempDir())
	start := time.Now()
	result := e.Run(context.Background(), "sleep 5", "", 20*time.Millisecond, 0)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected an explicit max_duration=0 to return after the first poll, took %s", elapsed)
	}
	if !result.TimedOut {
		t.Fatal("expected TimedOut=true: the command is still running after one poll")
	}
}
