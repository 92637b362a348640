package catalogue

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/devbridge/workbench-gateway/internal/clipboard"
	"github.com/devbridge/workbench-gateway/internal/dispatch"
	"github.com/devbridge/workbench-gateway/internal/health"
	"github.com/devbridge/workbench-gateway/internal/notify"
	"github.com/devbridge/workbench-gateway/internal/outputparse"
)

// miscTools builds the remaining tools (spec §6): clipboard pair,
// notification preference, self_check, list_recent_commands,
// get_environment_context.
func miscTools(deps Dependencies) []dispatch.Tool {
	return []dispatch.Tool{
		copyToClipboardTool(),
		readFromClipboardTool(),
		setNotificationPreferenceTool(deps),
		selfCheckTool(deps),
		listRecentCommandsTool(deps),
		getEnvironmentContextTool(deps),
	}
}

func copyToClipboardTool() dispatch.Tool {
	return dispatch.NewFunc(
		"copy_to_clipboard",
		"Write text to the host clipboard.",
		dispatch.ObjectSchema(map[string]interface{}{
			"text": dispatch.StringProp("text to place on the clipboard"),
		}, "text"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			text, err := args.RequireString("text")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if err := clipboard.Write(text); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text("copied to clipboard")
		},
	)
}

func readFromClipboardTool() dispatch.Tool {
	return dispatch.NewFunc(
		"read_from_clipboard",
		"Read the host clipboard's current text content.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			text, err := clipboard.Read()
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(text)
		},
	)
}

func setNotificationPreferenceTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"set_notification_preference",
		"Update the host notification preference for completed commands.",
		dispatch.ObjectSchema(map[string]interface{}{
			"enabled":           dispatch.BoolProp("whether notifications fire at all"),
			"sound":             dispatch.BoolProp("play a sound with the notification"),
			"notify_on_success": dispatch.BoolProp("notify when a command succeeds"),
			"notify_on_failure": dispatch.BoolProp("notify when a command fails"),
			"minimum_duration":  dispatch.NumberProp("suppress notifications below this many seconds, default 10"),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			current := deps.Notifications.Get()

			minSeconds, err := args.Float("minimum_duration", current.MinimumDuration.Seconds())
			if err != nil {
				return dispatch.Error(err.Error())
			}

			pref := notify.Preference{
				Enabled:         args.Bool("enabled", current.Enabled),
				Sound:           args.Bool("sound", current.Sound),
				NotifyOnSuccess: args.Bool("notify_on_success", current.NotifyOnSuccess),
				NotifyOnFailure: args.Bool("notify_on_failure", current.NotifyOnFailure),
				MinimumDuration: time.Duration(minSeconds * float64(time.Second)),
			}
			deps.Notifications.Set(pref)
			return dispatch.Text(fmt.Sprintf("notification preference updated: enabled=%v sound=%v onSuccess=%v onFailure=%v minDuration=%s",
				pref.Enabled, pref.Sound, pref.NotifyOnSuccess, pref.NotifyOnFailure, pref.MinimumDuration))
		},
	)
}

func selfCheckTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"self_check",
		"Report the gateway's health: configuration, history, terminal, temp dir, error rate, plus process diagnostics.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			report := health.Check(deps.Config, deps.History, deps.PreferredTerminal)

			var b strings.Builder
			fmt.Fprintf(&b, "status: %s\n", report.Status)
			fmt.Fprintf(&b, "config valid: %v\n", report.ConfigValid)
			fmt.Fprintf(&b, "history reachable: %v (size %s)\n", report.HistoryReachable, report.HistorySize)
			fmt.Fprintf(&b, "preferred terminal %q running: %v\n", report.PreferredTerminal, report.TerminalRunning)
			fmt.Fprintf(&b, "temp dir writable: %v (orphans: %d)\n", report.TempDirWritable, report.OrphanCount)
			fmt.Fprintf(&b, "recent error rate: %.0f%%\n", report.RecentErrorRate*100)
			for _, w := range report.Warnings {
				fmt.Fprintf(&b, "warning: %s\n", w)
			}

			// Supplemented richness beyond spec §4.11's four signals: process
			// uptime, Go runtime version, live session/watcher counts.
			fmt.Fprintf(&b, "uptime: %s\n", time.Since(deps.StartedAt).Round(time.Second))
			fmt.Fprintf(&b, "go runtime: %s\n", runtime.Version())
			fmt.Fprintf(&b, "live sessions: %d\n", len(deps.Sessions.List()))
			fmt.Fprintf(&b, "active watchers: %d\n", len(deps.Watch.List()))

			return dispatch.Text(b.String())
		},
	)
}

func listRecentCommandsTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_recent_commands",
		"List recently completed commands from history, optionally filtered.",
		dispatch.ObjectSchema(map[string]interface{}{
			"limit":  dispatch.NumberProp("how many to return, clamped to [1,50], default 10"),
			"status": dispatch.StringProp("all|success|failed, default all"),
			"search": dispatch.StringProp("substring filter over command text"),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			limit, err := args.Int("limit", 10)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			limit = clamp(limit, 1, 50)

			entries, err := deps.History.ListRecent(limit, args.StringDefault("status", "all"), args.String("search"))
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if len(entries) == 0 {
				return dispatch.Text("no recent commands")
			}

			var b strings.Builder
			for _, e := range entries {
				fmt.Fprintf(&b, "[%s] exit %d: %s\n", e.CompletedAt.Format(time.RFC3339), e.ExitCode, e.Command)
			}
			return dispatch.Text(b.String())
		},
	)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func getEnvironmentContextTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"get_environment_context",
		"Probe the shell environment: cwd, git state, language runtimes, project markers, disk space.",
		dispatch.ObjectSchema(map[string]interface{}{
			"working_directory": dispatch.StringProp("directory to probe from"),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			workingDir := args.String("working_directory")
			result, err := deps.Substrate.Direct(ctx, outputparse.ProbeScript, workingDir, 0)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			kv := outputparse.ParseProbeOutput(result.Stdout)
			var b strings.Builder
			for _, key := range []string{"cwd", "user", "host", "shell", "git_branch", "git_remote", "git_dirty", "venv", "conda_env", "docker_running", "free_disk"} {
				if v, ok := kv[key]; ok {
					fmt.Fprintf(&b, "%s=%s\n", key, v)
				}
			}
			return dispatch.Text(b.String())
		},
	)
}
