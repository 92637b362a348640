package pipeline

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const stdoutTruncateWidth = 500

// Render produces a sectioned, human-readable report: an overall summary
// line followed by one block per step, with any step's stdout truncated
// to 500 display columns and skipped entries carrying their step index
// (spec §4.4 "Rendering into a human-readable report").
func Render(report Report) string {
	var b strings.Builder

	outcome := "SUCCESS"
	if !report.Success {
		outcome = "FAILED"
	}
	fmt.Fprintf(&b, "pipeline %s (%d steps, %s total)\n", outcome, len(report.Steps), report.TotalDuration)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	for i, step := range report.Steps {
		label := step.Name
		if label == "" {
			label = step.Command
		}
		switch step.Status {
		case Skipped:
			fmt.Fprintf(&b, "[%d] %s — skipped\n", i, label)
		case Success:
			fmt.Fprintf(&b, "[%d] %s — ok (exit %d, %s)\n", i, label, step.ExitCode, step.Duration.Round(0))
		case Failed:
			fmt.Fprintf(&b, "[%d] %s — failed (exit %d, %s)\n", i, label, step.ExitCode, step.Duration.Round(0))
		}

		if step.Status != Skipped {
			if out := truncate(step.Stdout); out != "" {
				fmt.Fprintf(&b, "    stdout: %s\n", out)
			}
			if errOut := truncate(step.Stderr); errOut != "" {
				fmt.Fprintf(&b, "    stderr: %s\n", errOut)
			}
		}
	}

	return b.String()
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return runewidth.Truncate(s, stdoutTruncateWidth, "...")
}
