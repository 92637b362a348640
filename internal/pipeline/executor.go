package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Runner runs one step's command under direct execution, returning the
// captured streams and exit code.
type Runner func(ctx context.Context, command, workingDir string) (stdout, stderr string, exitCode int, err error)

// Executor runs an ordered list of Steps sequentially — step n+1 never
// starts until step n has terminated (spec §5 "Ordering guarantees").
type Executor struct {
	run Runner
}

// New builds an Executor bound to run.
func New(run Runner) *Executor {
	return &Executor{run: run}
}

// Run executes steps in order. Once a step records status Failed under
// policy Stop, every later step is recorded as Skipped with duration 0
// (spec §3 invariant).
func (e *Executor) Run(ctx context.Context, steps []Step) Report {
	report := Report{Success: true}
	stopped := false
	start := time.Now()

	for _, step := range steps {
		if stopped {
			report.Steps = append(report.Steps, StepResult{
				Name:    step.Name,
				Command: step.Command,
				Status:  Skipped,
			})
			continue
		}

		stepStart := time.Now()
		stdout, stderr, exitCode, err := e.run(ctx, step.Command, step.WorkingDir)
		duration := time.Since(stepStart)

		result := StepResult{
			Name:     step.Name,
			Command:  step.Command,
			ExitCode: exitCode,
			Stdout:   stdout,
			Stderr:   stderr,
			Duration: duration,
		}

		failed := err != nil || exitCode != 0
		if failed {
			result.Status = Failed
			report.Success = false

			switch step.effectivePolicy() {
			case Stop:
				stopped = true
			case Continue:
				slog.Info("pipeline step failed, continuing", "step", step.Name, "command", step.Command, "exitCode", exitCode)
			case Warn:
				slog.Warn("pipeline step failed", "step", step.Name, "command", step.Command, "exitCode", exitCode)
			}
		} else {
			result.Status = Success
		}

		report.Steps = append(report.Steps, result)
	}

	report.TotalDuration = time.Since(start)
	return report
}
