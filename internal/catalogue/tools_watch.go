package catalogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devbridge/workbench-gateway/internal/dispatch"
	"github.com/devbridge/workbench-gateway/internal/watch"
)

// watchTools builds the file-watch tools (spec §6, §4.6). Only the three
// tools the tool surface table names are exposed — pause/resume remain
// engine-only capabilities (Engine.Pause, Engine.Resume), since §6 does
// not document them as tool names.
func watchTools(deps Dependencies) []dispatch.Tool {
	return []dispatch.Tool{
		addFileWatchTool(deps),
		removeFileWatchTool(deps),
		listFileWatchesTool(deps),
	}
}

func addFileWatchTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"add_file_watch",
		"Watch a file or directory and run a command when it changes.",
		dispatch.ObjectSchema(map[string]interface{}{
			"path":              dispatch.StringProp("file or directory to watch"),
			"command":           dispatch.StringProp("command to run on change"),
			"file_extensions":   dispatch.ArrayProp("restrict to these extensions (case-insensitive)", dispatch.StringProp("")),
			"debounce_seconds":  dispatch.NumberProp("minimum seconds between dispatches, default 2.0"),
			"working_directory": dispatch.StringProp("directory to run the command in"),
			"label":             dispatch.StringProp("human label for this rule"),
		}, "path", "command"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			path, err := args.RequireString("path")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			command, err := args.RequireString("command")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			debounce, err := args.Float("debounce_seconds", 2.0)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			rule := watch.Rule{
				Path:       path,
				Command:    command,
				Extensions: args.StringSlice("file_extensions"),
				Debounce:   time.Duration(debounce * float64(time.Second)),
				WorkingDir: args.String("working_directory"),
				Label:      args.String("label"),
			}

			id, err := deps.Watch.Add(rule)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("watching %q (id %s)", path, id))
		},
	)
}

func removeFileWatchTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"remove_file_watch",
		"Stop a file watch rule and release its subscription.",
		dispatch.ObjectSchema(map[string]interface{}{
			"watcher_id": dispatch.StringProp("id returned by add_file_watch"),
		}, "watcher_id"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			id, err := args.RequireString("watcher_id")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if err := deps.Watch.Remove(id); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("removed watch %s", id))
		},
	)
}

func listFileWatchesTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_file_watches",
		"List every active file watch rule.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			rules := deps.Watch.List()
			if len(rules) == 0 {
				return dispatch.Text("no active file watches")
			}
			var b strings.Builder
			for _, r := range rules {
				fmt.Fprintf(&b, "%s: %s -> %q (active=%v, debounce=%s)\n", r.ID, r.Path, r.Command, r.Active, r.Debounce)
			}
			return dispatch.Text(b.String())
		},
	)
}
