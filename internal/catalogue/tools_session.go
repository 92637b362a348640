package catalogue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/devbridge/workbench-gateway/internal/dispatch"
)

// sessionTools builds the multi-tab session tools (spec §6, §4.7):
// open_terminal_tab, send_to_session, list_sessions, close_session.
func sessionTools(deps Dependencies) []dispatch.Tool {
	return []dispatch.Tool{
		openTerminalTabTool(deps),
		sendToSessionTool(deps),
		listSessionsTool(deps),
		closeSessionTool(deps),
	}
}

func openTerminalTabTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"open_terminal_tab",
		"Open a new named terminal tab, optionally cd'd into a directory and running a starting command.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":              dispatch.StringProp("session name to register"),
			"terminal":          dispatch.StringProp("terminal name recorded for the session and its tab numbering, default the configured preferred terminal; the tab itself opens in the host automation's terminal"),
			"command":           dispatch.StringProp("command to run once the tab opens"),
			"working_directory": dispatch.StringProp("directory to cd into before running command"),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			terminal := args.StringDefault("terminal", deps.PreferredTerminal)

			scriptPath, err := writeSessionScript(deps, args.String("working_directory"), args.String("command"))
			if err != nil {
				return dispatch.Error(err.Error())
			}
			defer os.Remove(scriptPath)

			session, err := deps.Sessions.Open(ctx, name, terminal, scriptPath)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("opened session %q in %s (tab %d)", session.Name, session.Terminal, session.TabIndex))
		},
	)
}

// writeSessionScript stages a throwaway shell script implementing the
// optional cd + starting command, the same way the execution substrate
// stages scripts for terminal-mediated execution.
func writeSessionScript(deps Dependencies, workingDir, command string) (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	if workingDir != "" {
		fmt.Fprintf(&b, "cd %s || exit 1\n", shellQuote(workingDir))
	}
	if command != "" {
		b.WriteString(command + "\n")
	}

	path := filepath.Join(deps.Config.Dirs.TempDir, "claude_session_"+uuid.NewString()+".sh")
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		return "", fmt.Errorf("write session script: %w", err)
	}
	return path, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sendToSessionTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"send_to_session",
		"Type a command into an already-open named session.",
		dispatch.ObjectSchema(map[string]interface{}{
			"session_name": dispatch.StringProp("name of an open session"),
			"command":      dispatch.StringProp("text to send"),
		}, "session_name", "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("session_name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if err := deps.Sessions.Send(ctx, name, command); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("sent to session %q", name))
		},
	)
}

func listSessionsTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_sessions",
		"List every live terminal session, ordered by creation time.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			sessions := deps.Sessions.List()
			if len(sessions) == 0 {
				return dispatch.Text("no live sessions")
			}
			var b strings.Builder
			for _, s := range sessions {
				fmt.Fprintf(&b, "%s (%s, tab %d, %d commands)\n", s.Name, s.Terminal, s.TabIndex, s.CommandCount)
			}
			return dispatch.Text(b.String())
		},
	)
}

func closeSessionTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"close_session",
		"Close a named session and release its host tab.",
		dispatch.ObjectSchema(map[string]interface{}{
			"session_name": dispatch.StringProp("name of the session to close"),
			"close_tab":    dispatch.BoolProp("also close the host tab (default false; this core always releases it on close)"),
		}, "session_name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("session_name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if err := deps.Sessions.Close(ctx, name); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("closed session %q", name))
		},
	)
}
