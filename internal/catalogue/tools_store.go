package catalogue

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devbridge/workbench-gateway/internal/dispatch"
	"github.com/devbridge/workbench-gateway/internal/profile"
	"github.com/devbridge/workbench-gateway/internal/snapshot"
	"github.com/devbridge/workbench-gateway/internal/sshprofile"
)

// storeTools builds the template, workspace-profile, SSH-profile and
// environment-snapshot tools (spec §6, §4.8).
func storeTools(deps Dependencies) []dispatch.Tool {
	return []dispatch.Tool{
		saveTemplateTool(deps),
		runTemplateTool(deps),
		listTemplatesTool(deps),
		saveWorkspaceProfileTool(deps),
		loadWorkspaceProfileTool(deps),
		listWorkspaceProfilesTool(deps),
		deleteWorkspaceProfileTool(deps),
		saveSSHProfileTool(deps),
		listSSHProfilesTool(deps),
		deleteSSHProfileTool(deps),
		captureEnvironmentTool(deps),
		diffEnvironmentTool(deps),
	}
}

func saveTemplateTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"save_template",
		"Save a reusable command skeleton with {{placeholder}} variables.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":        dispatch.StringProp("template name"),
			"template":    dispatch.StringProp("command text, with {{variable}} placeholders"),
			"description": dispatch.StringProp("human description"),
			"category":    dispatch.StringProp("grouping category"),
		}, "name", "template"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			command, err := args.RequireString("template")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			tpl, err := deps.Templates.Save(name, command, args.String("description"), args.String("category"))
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("saved template %q (variables: %v)", tpl.Name, tpl.Variables))
		},
	)
}

func runTemplateTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"run_template",
		"Render a saved template with variable bindings and execute it directly.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":      dispatch.StringProp("template name"),
			"variables": dispatch.ObjectSchema(map[string]interface{}{}),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			tpl, err := deps.Templates.Get(name)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			command, err := tpl.Render(args.StringMap("variables"))
			if err != nil {
				return dispatch.Error(err.Error())
			}

			start := time.Now()
			result, err := deps.Substrate.Direct(ctx, command, "", 0)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			recordAndNotify(ctx, deps, result, time.Since(start))
			return dispatch.Text(formatCommandResult(result))
		},
	)
}

func listTemplatesTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_templates",
		"List saved command templates, optionally filtered by category.",
		dispatch.ObjectSchema(map[string]interface{}{
			"category": dispatch.StringProp("restrict to this category; omit for all"),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			templates := deps.Templates.List(args.String("category"))
			if len(templates) == 0 {
				return dispatch.Text("no saved templates")
			}
			var b strings.Builder
			for _, tpl := range templates {
				fmt.Fprintf(&b, "%s [%s]: %s (variables: %v)\n", tpl.Name, tpl.Category, tpl.Command, tpl.Variables)
			}
			return dispatch.Text(b.String())
		},
	)
}

func saveWorkspaceProfileTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"save_workspace_profile",
		"Save a named bundle of working directory, default commands, env overlay and terminal preference.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":              dispatch.StringProp("profile name"),
			"directory":         dispatch.StringProp("working directory"),
			"default_commands":  dispatch.ArrayProp("commands to offer by default", dispatch.StringProp("")),
			"environment":       dispatch.ObjectSchema(map[string]interface{}{}),
			"terminal":          dispatch.StringProp("preferred terminal application"),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			p := profile.Profile{
				Name:             name,
				WorkingDirectory: args.String("directory"),
				DefaultCommands:  args.StringSlice("default_commands"),
				Environment:      args.StringMap("environment"),
				Terminal:         args.String("terminal"),
			}
			if err := deps.Profiles.Save(p); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("saved workspace profile %q", name))
		},
	)
}

func loadWorkspaceProfileTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"load_workspace_profile",
		"Load a saved workspace profile by name.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name": dispatch.StringProp("profile name"),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			p, err := deps.Profiles.Load(name)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("%s: directory=%s terminal=%s commands=%v env=%v",
				p.Name, p.WorkingDirectory, p.Terminal, p.DefaultCommands, p.Environment))
		},
	)
}

func listWorkspaceProfilesTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_workspace_profiles",
		"List saved workspace profiles.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			profiles := deps.Profiles.List()
			if len(profiles) == 0 {
				return dispatch.Text("no saved workspace profiles")
			}
			var b strings.Builder
			for _, p := range profiles {
				fmt.Fprintf(&b, "%s: %s\n", p.Name, p.WorkingDirectory)
			}
			return dispatch.Text(b.String())
		},
	)
}

func deleteWorkspaceProfileTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"delete_workspace_profile",
		"Delete a saved workspace profile by name.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name": dispatch.StringProp("profile name"),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			if err := deps.Profiles.Delete(name); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("deleted workspace profile %q", name))
		},
	)
}

func saveSSHProfileTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"save_ssh_profile",
		"Save a named SSH remote target.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":              dispatch.StringProp("profile name"),
			"host":              dispatch.StringProp("remote host"),
			"username":          dispatch.StringProp("remote user"),
			"port":              dispatch.NumberProp("SSH port, default 22"),
			"identity_file":     dispatch.StringProp("path to a private key"),
			"default_directory": dispatch.StringProp("remote directory to cd into"),
		}, "name", "host", "username"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			host, err := args.RequireString("host")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			user, err := args.RequireString("username")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			port, err := args.Int("port", 22)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			p := sshprofile.Profile{
				Name:         name,
				Host:         host,
				User:         user,
				Port:         port,
				IdentityFile: args.String("identity_file"),
				RemoteDir:    args.String("default_directory"),
			}
			if err := deps.SSHProfiles.Save(p); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("saved SSH profile %q (%s@%s:%d)", name, user, host, port))
		},
	)
}

func listSSHProfilesTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"list_ssh_profiles",
		"List saved SSH profiles.",
		dispatch.ObjectSchema(map[string]interface{}{}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			profiles := deps.SSHProfiles.List()
			if len(profiles) == 0 {
				return dispatch.Text("no saved SSH profiles")
			}
			var b strings.Builder
			for _, p := range profiles {
				fmt.Fprintf(&b, "%s: %s@%s:%d\n", p.Name, p.User, p.Host, p.Port)
			}
			return dispatch.Text(b.String())
		},
	)
}

func deleteSSHProfileTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"delete_ssh_profile",
		"Delete a saved SSH profile by name.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":       dispatch.StringProp("profile name"),
			"profile_id": dispatch.StringProp("alias for name"),
		}),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name := args.StringDefault("name", args.String("profile_id"))
			if name == "" {
				return dispatch.Error("name (or profile_id) is required")
			}
			if err := deps.SSHProfiles.Delete(name); err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("deleted SSH profile %q", name))
		},
	)
}

func captureEnvironmentTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"capture_environment",
		"Capture an immutable snapshot of this process's environment.",
		dispatch.ObjectSchema(map[string]interface{}{
			"name":              dispatch.StringProp("snapshot name"),
			"working_directory": dispatch.StringProp("directory recorded alongside the snapshot"),
		}, "name"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			name, err := args.RequireString("name")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			directory := args.String("working_directory")
			if directory == "" {
				directory, _ = os.Getwd()
			}

			snap, err := deps.Snapshots.Capture(name, directory, currentEnv())
			if err != nil {
				return dispatch.Error(err.Error())
			}
			return dispatch.Text(fmt.Sprintf("captured snapshot %q (%d variables)", snap.Name, len(snap.Env)))
		},
	)
}

func diffEnvironmentTool(deps Dependencies) dispatch.Tool {
	return dispatch.NewFunc(
		"diff_environment",
		"Compare two environment snapshots.",
		dispatch.ObjectSchema(map[string]interface{}{
			"from": dispatch.StringProp("earlier snapshot name"),
			"to":   dispatch.StringProp("later snapshot name"),
		}, "from", "to"),
		func(ctx context.Context, args dispatch.Args) *dispatch.Result {
			from, err := args.RequireString("from")
			if err != nil {
				return dispatch.Error(err.Error())
			}
			to, err := args.RequireString("to")
			if err != nil {
				return dispatch.Error(err.Error())
			}

			before, err := deps.Snapshots.Get(from)
			if err != nil {
				return dispatch.Error(err.Error())
			}
			after, err := deps.Snapshots.Get(to)
			if err != nil {
				return dispatch.Error(err.Error())
			}

			diff := snapshot.Compare(before, after)
			if diff.Equal {
				return dispatch.Text("no differences")
			}
			return dispatch.Text(fmt.Sprintf("added=%v removed=%v changed=%v",
				snapshot.SortedKeys(diff.Added), snapshot.SortedKeys(diff.Removed), changedKeys(diff.Changed)))
		},
	)
}

func changedKeys(m map[string][2]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func currentEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, found := strings.Cut(kv, "="); found {
			out[name] = value
		}
	}
	return out
}
