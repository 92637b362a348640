package dispatch

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher validates and routes tool calls to their handlers, converting
// unknown names, policy-denied names, and every handler error into the
// `{content, isError}` envelope. The dispatcher itself never panics or
// returns a transport-level error (spec §4.1).
type Dispatcher struct {
	registry *Registry
	policy   *Policy
}

// NewDispatcher builds a Dispatcher over a registry, with an optional policy.
func NewDispatcher(registry *Registry, policy *Policy) *Dispatcher {
	return &Dispatcher{registry: registry, policy: policy}
}

// Dispatch validates and routes a single tool call.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args) (result *Result) {
	tool, ok := d.registry.Get(name)
	if !ok {
		return Error(fmt.Sprintf("unknown tool: %s", name))
	}
	if d.policy != nil && !d.policy.Allowed(name) {
		return Error(fmt.Sprintf("tool not permitted by policy: %s", name))
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatch.tool_panic", "tool", name, "recover", r)
			result = Error(fmt.Sprintf("tool %s panicked: %v", name, r))
		}
	}()

	result = tool.Execute(ctx, args)
	if result == nil {
		result = Error(fmt.Sprintf("tool %s returned no result", name))
	}
	return result
}

// AdvertisedTools returns the tool names the dispatcher will currently
// accept calls for, after policy filtering.
func (d *Dispatcher) AdvertisedTools() []string {
	names := d.registry.Names()
	if d.policy != nil {
		names = d.policy.Filter(names)
	}
	return names
}
