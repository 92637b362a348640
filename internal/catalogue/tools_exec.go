package catalogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devbridge/workbench-gateway/internal/classifier"
	"github.com/devbridge/workbench-gateway/internal/dispatch"
	"github.com/devbridge/workbench-gateway/internal/execsubstrate"
	"github.com/devbridge/workbench-gateway/internal/outputparse"
	"github.com/devbridge/workbench-gateway/internal/pipeline"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
	"github.com/devbridge/workbench-gateway/internal/streaming"
)

// execTools builds the execution-channel tools (spec §6): suggest_command,
// execute_command, execute_with_auto_retrieve, preview_command,
// get_command_output, execute_pipeline, execute_with_streaming,
// execute_and_parse, check_interactive, ssh_execute.
func execTools(deps Dependencies) []dispatch.Tool {
	return []dispatch.Tool{
		suggestCommandTool(deps),
		executeCommandTool(deps),
		executeWithAutoRetrieveTool(deps),
		previewCommandTool(deps),
		getCommandOutputTool(deps),
		executePipelineTool(deps),
		executeWithStreamingTool(deps),
		executeAndParseTool(deps),
		checkInteractiveTool(deps),
		sshExecuteTool(deps),
	}
}

func suggestCommandTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"suggest_command",
		"Suggest a saved command template matching a free-text query.",
		dispatch.ObjectSchema(map[string]interface{}{
			"query": dispatch.StringProp("free-text description of the desired command"),
		}, "query"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			query, err := args.RequireString("query")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			needle := strings.ToLower(query)

			var matches []string
			for _, tpl := range deps.Templates.List("") {
				haystack := strings.ToLower(tpl.Name + " " + tpl.Description)
				if strings.Contains(haystack, needle) {
					matches = append(matches, fmt.Sprintf("%s: %s", tpl.Name, tpl.Command))
				}
			}
			if len(matches) == 0 {
				return dispatch.Text(fmt.Sprintf("no saved template matches %q", query))
			}
			return dispatch.Text(strings.Join(matches, "\n"))
		},
	)
}

func executeCommandTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"execute_command",
		"Execute a command directly and capture its output synchronously.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command":           dispatch.StringProp("shell command to run"),
			"working_directory": dispatch.StringProp("directory to run the command in"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			workingDir := args.String("working_directory")

			verdict := deps.Substrate.Classify(command)
			if verdict.Level == classifier.Interactive {
				return dispatch.Error(verdict.Warning())
			}

			start := time.Now()
			result, err := deps.Substrate.Direct(ctx, command, workingDir, 0)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			recordAndNotify(ctx, deps, result, time.Since(start))

			out := formatCommandResult(result)
			if verdict.Level == classifier.Cautious {
				out += "\n\n" + verdict.Notice()
			}
			return dispatch.Text(out)
		},
	)
}

func executeWithAutoRetrieveTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"execute_with_auto_retrieve",
		"Dispatch a command through a user-visible terminal and poll for its result.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command":           dispatch.StringProp("shell command to run"),
			"working_directory": dispatch.StringProp("directory to run the command in"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			workingDir := args.String("working_directory")

			message, err := deps.Results.AutoRetrieve(ctx, func(ctx context.Context) (string, string, error) {
				id, err := deps.Substrate.DispatchTerminal(ctx, command, workingDir)
				if err != nil {
					return "", "", err
				}
				return id, fmt.Sprintf("dispatched %q to a terminal tab", command), nil
			})
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(message)
		},
	)
}

func previewCommandTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"preview_command",
		"Classify a command and describe what would happen without running it.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command": dispatch.StringProp("shell command to preview"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			verdict := deps.Substrate.Classify(command)
			switch verdict.Level {
			case classifier.Interactive:
				return dispatch.Text(fmt.Sprintf("would be refused: %s", verdict.Warning()))
			case classifier.Cautious:
				return dispatch.Text(fmt.Sprintf("would run with a caution notice: %s", verdict.Notice()))
			default:
				return dispatch.Text("would run directly, no caution notice")
			}
		},
	)
}

func getCommandOutputTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"get_command_output",
		"Retrieve a previously executed command's result by id.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command_id": dispatch.StringProp(`command id, or "last" for the most recent`),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			id := args.StringDefault("command_id", resultstore.LastAlias)
			result, notFound := deps.Results.Get(id)
			if notFound != "" {
				return dispatch.Error(notFound)
			}
			return dispatch.Text(formatCommandResult(result))
		},
	)
}

func executePipelineTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"execute_pipeline",
		"Execute an ordered list of command steps with per-step failure policy.",
		dispatch.ObjectSchema(map[string]interface{}{
			"steps": dispatch.ArrayProp("ordered pipeline steps", dispatch.ObjectSchema(map[string]interface{}{
				"command":            dispatch.StringProp("shell command for this step"),
				"on_fail":            dispatch.StringProp("stop|continue|warn, default stop"),
				"name":               dispatch.StringProp("human label for this step"),
				"working_directory":  dispatch.StringProp("directory to run this step in"),
			}, "command")),
		}, "steps"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			rawSteps, ok := args["steps"].([]interface{})
			if !ok || len(rawSteps) == 0 {
				return dispatch.Error("steps is required and must be a non-empty array")
			}

			steps := make([]pipeline.Step, 0, len(rawSteps))
			for i, raw := range rawSteps {
				m, ok := raw.(map[string]interface{})
				if !ok {
					return dispatch.Error(fmt.Sprintf("steps[%d] must be an object", i))
				}
				stepArgs := dispatch.Args(m)
				command, err := stepArgs.RequireString("command")
				if err != nil {
					return dispatch.Error(fmt.Sprintf("steps[%d]: %s", i, err))
				}
				steps = append(steps, pipeline.Step{
					Command:    command,
					OnFail:     pipeline.FailurePolicy(stepArgs.String("on_fail")),
					Name:       stepArgs.String("name"),
					WorkingDir: stepArgs.String("working_directory"),
				})
			}

			report := deps.Pipeline.Run(ctx, steps)
			return dispatch.Text(pipeline.Render(report))
		},
	)
}

func executeWithStreamingTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"execute_with_streaming",
		"Run a long-lived command while progressively surfacing its output.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command":           dispatch.StringProp("shell command to run"),
			"update_interval":   dispatch.NumberProp("seconds between polls, default 2"),
			"max_duration":      dispatch.NumberProp("overall polling budget in seconds, default 120"),
			"working_directory": dispatch.StringProp("directory to run the command in"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			workingDir := args.String("working_directory")

			// "Omitted" and "explicitly 0" are distinguished by Args.Float
			// itself (a present JSON 0 is not the same as an absent key),
			// so the default below only applies when the argument was
			// never sent at all — an explicit 0 reaches Streaming.Run
			// unchanged and triggers its first-poll-then-return behaviour.
			updateSeconds, err := args.Float("update_interval", streaming.DefaultUpdateInterval.Seconds())
			if err != nil {
				return dispatch.Error(err.Error())
			}
			maxSeconds, err := args.Float("max_duration", streaming.DefaultMaxDuration.Seconds())
			if err != nil {
				return dispatch.Error(err.Error())
			}

			result := deps.Streaming.Run(ctx, command, workingDir,
				time.Duration(updateSeconds*float64(time.Second)),
				time.Duration(maxSeconds*float64(time.Second)))

			var b strings.Builder
			for _, u := range result.Updates {
				fmt.Fprintf(&b, "[%s] %s\n", u.Elapsed.Round(time.Second), u.Text)
			}
			if result.IsError {
				return dispatch.Error(b.String())
			}
			return dispatch.Text(b.String())
		},
	)
}

func executeAndParseTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"execute_and_parse",
		"Execute a command directly and route its stdout through a structured parser.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command":           dispatch.StringProp("shell command to run"),
			"working_directory": dispatch.StringProp("directory to run the command in"),
			"parser":            dispatch.StringProp("auto|git_status|git_log|docker_ps|test_results|ls|json, default auto"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			workingDir := args.String("working_directory")

			verdict := deps.Substrate.Classify(command)
			if verdict.Level == classifier.Interactive {
				return dispatch.Error(verdict.Warning())
			}

			start := time.Now()
			result, err := deps.Substrate.Direct(ctx, command, workingDir, 0)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			recordAndNotify(ctx, deps, result, time.Since(start))

			routeCommand := command
			if requested := args.String("parser"); requested != "" && requested != "auto" {
				routeCommand = parserAlias(requested)
			}
			parsed := outputparse.Parse(routeCommand, result.Stdout)

			return dispatch.Text(fmt.Sprintf("exit %d, parsed as %s:\n%+v", result.ExitCode, parsed.Kind, parsed.Data))
		},
	)
}

// parserAlias maps an explicit parser selection onto a command prefix the
// routing table recognises, bypassing command-text sniffing.
func parserAlias(name string) string {
	switch name {
	case "git_status":
		return "git status"
	case "git_log":
		return "git log"
	case "docker_ps":
		return "docker ps"
	case "test_results":
		return "pytest"
	case "ls":
		return "ls -la"
	default:
		return name
	}
}

func checkInteractiveTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"check_interactive",
		"Classify a command as safe, cautious, interactive, or blocked.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command": dispatch.StringProp("shell command to classify"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}

			if blockErr := deps.Substrate.CheckBlocked(command); blockErr != nil {
				out := fmt.Sprintf("level=%s explanation=%q", classifier.Blocked, blockErr.Error())
				return dispatch.Text(out)
			}

			verdict := classifier.Classify(command)
			out := fmt.Sprintf("level=%s", verdict.Level)
			if verdict.Explanation != "" {
				out += fmt.Sprintf(" explanation=%q", verdict.Explanation)
			}
			if verdict.Suggestion != "" {
				out += fmt.Sprintf(" suggestion=%q", verdict.Suggestion)
			}
			return dispatch.Text(out)
		},
	)
}

func sshExecuteTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"ssh_execute",
		"Execute a command on a remote host over SSH, by explicit target or saved profile.",
		dispatch.ObjectSchema(map[string]interface{}{
			"command":       dispatch.StringProp("remote shell command to run"),
			"host":          dispatch.StringProp("remote host"),
			"username":      dispatch.StringProp("remote user"),
			"profile":       dispatch.StringProp("saved SSH profile name, overrides host/username"),
			"port":          dispatch.NumberProp("SSH port, default 22"),
			"identity_file": dispatch.StringProp("path to a private key"),
			"timeout":       dispatch.NumberProp("overall time limit in seconds for the ssh run, default 30; the connect timeout is the configured one and is not set per call"),
		}, "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}

			target, err := resolveSSHTarget(deps, args)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			timeoutSeconds, err := args.Float("timeout", 30)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			result, err := deps.Substrate.SSH(ctx, target, command, time.Duration(timeoutSeconds*float64(time.Second)))
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(formatCommandResult(result))
		},
	)
}

func resolveSSHTarget(deps Dependencies, args dispatch.Args) (execsubstrate.SSHTarget, error) {
	if name := args.String("profile"); name != "" {
		p, err := deps.SSHProfiles.Get(name)
		if err != nil {
			return execsubstrate.SSHTarget{}, err
		}
		return execsubstrate.SSHTarget{
			Host:         p.Host,
			User:         p.User,
			Port:         p.Port,
			IdentityFile: p.IdentityFile,
			RemoteDir:    p.RemoteDir,
		}, nil
	}

	host := args.String("host")
	user := args.String("username")
	if host == "" || user == "" {
		return execsubstrate.SSHTarget{}, fmt.Errorf("either profile, or both host and username, are required")
	}
	port, err := args.Int("port", 22)
	if err != nil {
		return execsubstrate.SSHTarget{}, err
	}
	return execsubstrate.SSHTarget{
		Host:         host,
		User:         user,
		Port:         port,
		IdentityFile: args.String("identity_file"),
	}, nil
}
