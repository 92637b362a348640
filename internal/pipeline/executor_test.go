package pipeline

import (
	"context"
	"strings"
	"testing"
)

func runnerFor(results map[string]int) Runner {
	return func(ctx context.Context, command, workingDir string) (string, string, int, error) {
		return "out:" + command, "", results[command], nil
	}
}

func TestStopPolicySkipsLaterSteps(t *testing.T) {
	e := New(runnerFor(map[string]int{"ok": 0, "boom": 1, "never": 0}))
	report := e.Run(context.Background(), []Step{
		{Command: "ok", OnFail: Stop},
		{Command: "boom", OnFail: Stop},
		{Command: "never", OnFail: Stop},
	})

	if report.Success {
		t.Fatal("expected overall failure")
	}
	if report.Steps[0].Status != Success {
		t.Fatalf("step 0 status = %s", report.Steps[0].Status)
	}
	if report.Steps[1].Status != Failed {
		t.Fatalf("step 1 status = %s", report.Steps[1].Status)
	}
	if report.Steps[2].Status != Skipped {
		t.Fatalf("step 2 status = %s, want skipped", report.Steps[2].Status)
	}
	if report.Steps[2].Duration != 0 {
		t.Fatalf("skipped step duration = %v, want 0", report.Steps[2].Duration)
	}
}

func TestContinuePolicyRunsLaterSteps(t *testing.T) {
	e := New(runnerFor(map[string]int{"ok": 0, "boom": 1, "recovered": 0}))
	report := e.Run(context.Background(), []Step{
		{Command: "ok", OnFail: Continue},
		{Command: "boom", OnFail: Continue},
		{Command: "recovered", OnFail: Continue},
	})

	if report.Steps[2].Status != Success {
		t.Fatalf("expected step after continue-policy failure to run, got %s", report.Steps[2].Status)
	}
	if report.Success {
		t.Fatal("expected overall Success=false since a step failed")
	}
}

func TestWarnPolicyRunsLaterSteps(t *testing.T) {
	e := New(runnerFor(map[string]int{"boom": 1, "next": 0}))
	report := e.Run(context.Background(), []Step{
		{Command: "boom", OnFail: Warn},
		{Command: "next", OnFail: Warn},
	})
	if report.Steps[1].Status != Success {
		t.Fatalf("expected warn policy to continue, got %s", report.Steps[1].Status)
	}
}

func TestDefaultPolicyIsStop(t *testing.T) {
	e := New(runnerFor(map[string]int{"boom": 1, "never": 0}))
	report := e.Run(context.Background(), []Step{
		{Command: "boom"},
		{Command: "never"},
	})
	if report.Steps[1].Status != Skipped {
		t.Fatalf("expected default policy to stop, got %s", report.Steps[1].Status)
	}
}

func TestRenderTruncatesLongStdout(t *testing.T) {
	report := Report{
		Success: true,
		Steps: []StepResult{
			{Name: "noisy", Command: "noisy", Status: Success, Stdout: strings.Repeat("x", 2000)},
		},
	}
	out := Render(report)
	if strings.Contains(out, strings.Repeat("x", 2000)) {
		t.Fatal("expected stdout to be truncated in rendered report")
	}
	if !strings.Contains(out, "...") {
		t.Fatal("expected truncation marker in rendered report")
	}
}

func TestRenderMarksSkippedStepsWithIndex(t *testing.T) {
	report := Report{
		Steps: []StepResult{
			{Name: "a", Status: Success},
			{Name: "b", Status: Skipped},
		},
	}
	out := Render(report)
	if !strings.Contains(out, "[1] b") {
		t.Fatalf("expected skipped step to carry its index, got:\n%s", out)
	}
}
