// Package catalogue wires every component built elsewhere in this module
// into the tool surface described in spec §6, and hosts it over stdio via
// the mcp-go server (spec §4.1, SPEC_FULL.md MODULE LAYOUT).
package catalogue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devbridge/workbench-gateway/internal/config"
	"github.com/devbridge/workbench-gateway/internal/dispatch"
	"github.com/devbridge/workbench-gateway/internal/execsubstrate"
	"github.com/devbridge/workbench-gateway/internal/history"
	"github.com/devbridge/workbench-gateway/internal/notify"
	"github.com/devbridge/workbench-gateway/internal/pipeline"
	"github.com/devbridge/workbench-gateway/internal/profile"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
	"github.com/devbridge/workbench-gateway/internal/snapshot"
	"github.com/devbridge/workbench-gateway/internal/sshprofile"
	"github.com/devbridge/workbench-gateway/internal/streaming"
	"github.com/devbridge/workbench-gateway/internal/template"
	"github.com/devbridge/workbench-gateway/internal/termsession"
	"github.com/devbridge/workbench-gateway/internal/watch"
)

// Dependencies bundles every collaborator a tool handler might need. One
// instance is built at startup and shared by every handler closure.
type Dependencies struct {
	Config            *config.Config
	Results           *resultstore.Store
	Substrate         *execsubstrate.Substrate
	Pipeline          *pipeline.Executor
	Streaming         *streaming.Executor
	Watch             *watch.Engine
	Sessions          *termsession.Manager
	Profiles          *profile.Store
	SSHProfiles       *sshprofile.Store
	Snapshots         *snapshot.Store
	Templates         *template.Store
	History           *history.Sink
	Notifications     *notify.Store
	Notifier          notify.Notifier
	PreferredTerminal string
	StartedAt         time.Time
}

// Build assembles every §6 tool and registers it against a fresh registry.
func Build(deps Dependencies) *dispatch.Registry {
	registry := dispatch.NewRegistry()

	for _, t := range execTools(deps) {
		registry.Register(t)
	}
	for _, t := range sessionTools(deps) {
		registry.Register(t)
	}
	for _, t := range storeTools(deps) {
		registry.Register(t)
	}
	for _, t := range watchTools(deps) {
		registry.Register(t)
	}
	for _, t := range miscTools(deps) {
		registry.Register(t)
	}

	return registry
}

// recordAndNotify records a completed direct/terminal execution into
// history and gates a host notification on the configured preference
// (spec §4.11 history signal, §1 notification collaborator).
func recordAndNotify(ctx context.Context, deps Dependencies, r *resultstore.CommandResult, duration time.Duration) {
	if deps.History != nil {
		if err := deps.History.Record(r.ID, r.Command, r.ExitCode, r.Completed); err != nil {
			// Persistence failures are logged, never surfaced (spec §7).
			slog.Warn("history.record_failed", "id", r.ID, "error", err)
		}
	}
	if deps.Notifications != nil && deps.Notifier != nil {
		pref := deps.Notifications.Get()
		_ = notify.NotifyCompletion(ctx, deps.Notifier, pref, r.Command, r.ExitCode, duration)
	}
}

// formatCommandResult renders a CommandResult the way every exec tool
// reports it back to the assistant.
func formatCommandResult(r *resultstore.CommandResult) string {
	out := fmt.Sprintf("exit %d", r.ExitCode)
	if r.Stdout != "" {
		out += "\nstdout:\n" + r.Stdout
	}
	if r.Stderr != "" {
		out += "\nstderr:\n" + r.Stderr
	}
	return out
}
