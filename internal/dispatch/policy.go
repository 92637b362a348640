package dispatch

import (
	"log/slog"
	"strings"
)

// toolGroups bundles related tool names for coarse allow/deny policy
// (supplemented feature #1 in SPEC_FULL.md; grounded on the teacher's
// tool-group / tool-profile pattern).
var toolGroups = map[string][]string{
	"exec":     {"execute_command", "execute_with_auto_retrieve", "execute_pipeline", "execute_with_streaming", "execute_and_parse", "preview_command", "check_interactive"},
	"sessions": {"open_terminal_tab", "send_to_session", "list_sessions", "close_session"},
	"watchers": {"add_file_watch", "remove_file_watch", "list_file_watches"},
	"ssh":      {"ssh_execute", "save_ssh_profile", "list_ssh_profiles", "delete_ssh_profile"},
	"profiles": {"save_workspace_profile", "load_workspace_profile", "list_workspace_profiles", "delete_workspace_profile"},
	"templates": {"save_template", "run_template", "list_templates"},
	"env":      {"get_environment_context", "capture_environment", "diff_environment"},
}

// Policy is an optional allow/deny filter in front of the registry. With no
// rules configured, every tool in the registry is advertised — the default
// surface documented in spec §6.
type Policy struct {
	allow []string
	deny  []string
}

// NewPolicy builds a Policy from allow/deny specs, each entry either a bare
// tool name or "group:<name>".
func NewPolicy(allow, deny []string) *Policy {
	return &Policy{allow: allow, deny: deny}
}

// Filter returns the subset of `names` permitted by the policy.
func (p *Policy) Filter(names []string) []string {
	if p == nil {
		return names
	}
	allowed := names
	if len(p.allow) > 0 {
		allowed = intersect(allowed, expand(p.allow))
	}
	if len(p.deny) > 0 {
		allowed = subtract(allowed, expand(p.deny))
	}
	return allowed
}

// Allowed reports whether a single tool name passes the policy.
func (p *Policy) Allowed(name string) bool {
	if p == nil {
		return true
	}
	for _, n := range p.Filter([]string{name}) {
		if n == name {
			return true
		}
	}
	return false
}

func expand(spec []string) map[string]bool {
	out := make(map[string]bool)
	for _, s := range spec {
		if strings.HasPrefix(s, "group:") {
			group := strings.TrimPrefix(s, "group:")
			members, ok := toolGroups[group]
			if !ok {
				slog.Warn("dispatch.unknown_tool_group", "group", group)
				continue
			}
			for _, m := range members {
				out[m] = true
			}
			continue
		}
		out[s] = true
	}
	return out
}

func intersect(names []string, set map[string]bool) []string {
	var out []string
	for _, n := range names {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}

func subtract(names []string, set map[string]bool) []string {
	var out []string
	for _, n := range names {
		if !set[n] {
			out = append(out, n)
		}
	}
	return out
}
