package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/devbridge/workbench-gateway/internal/auxsink"
	"github.com/devbridge/workbench-gateway/internal/catalogue"
	"github.com/devbridge/workbench-gateway/internal/config"
	"github.com/devbridge/workbench-gateway/internal/execsubstrate"
	"github.com/devbridge/workbench-gateway/internal/health"
	"github.com/devbridge/workbench-gateway/internal/history"
	"github.com/devbridge/workbench-gateway/internal/hostauto"
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

// Version is set at build time via -ldflags "-X github.com/devbridge/workbench-gateway/cmd.Version=v1.0.0"
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "workbench-gateway",
	Short: "Workbench Gateway — a developer-workstation tool catalogue hosted over MCP",
	Long:  "Workbench Gateway hosts a catalogue of developer-workstation tools (command execution, file watching, terminal sessions, SSH, templates) over an MCP stdio transport for an AI assistant.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: config.json or $WORKBENCH_CONFIG)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(doctorCmd())
}

// Execute runs the root cobra command; main.go's sole job is to call this.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("workbench-gateway %s\n", Version)
		},
	}
}

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if v := os.Getenv("WORKBENCH_CONFIG"); v != "" {
		return v
	}
	return "config.json"
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Host the tool catalogue over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// gatewayDeps bundles wired dependencies plus their teardown, so serve and
// doctor can share one wiring routine.
type gatewayDeps struct {
	deps  catalogue.Dependencies
	close func()
}

// buildDependencies wires every collaborator built elsewhere in this module
// (execution substrate, stores, sessions, watch engine, history, notify)
// from a loaded Config into a catalogue.Dependencies.
func buildDependencies(cfg *config.Config) (gatewayDeps, error) {
	if err := os.MkdirAll(cfg.Dirs.ConfigDir, 0755); err != nil {
		return gatewayDeps{}, fmt.Errorf("create config dir: %w", err)
	}

	results := resultstore.New(cfg.Dirs.TempDir, cfg.Execution.OutputPrefix)
	auto := hostauto.Default()

	substrate, err := execsubstrate.New(cfg, results, auto)
	if err != nil {
		return gatewayDeps{}, fmt.Errorf("build execution substrate: %w", err)
	}

	runner := func(ctx context.Context, command, workingDir string) (string, string, int, error) {
		result, err := substrate.Direct(ctx, command, workingDir, 0)
		if err != nil {
			return "", "", -1, err
		}
		return result.Stdout, result.Stderr, result.ExitCode, nil
	}

	histSink, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return gatewayDeps{}, fmt.Errorf("open history: %w", err)
	}

	deps := catalogue.Dependencies{
		Config:            cfg,
		Results:           results,
		Substrate:         substrate,
		Pipeline:          pipeline.New(runner),
		Streaming:         streaming.New(cfg.Dirs.TempDir),
		Watch:             watch.New(runner),
		Sessions:          termsession.NewManager(auto),
		Profiles:          profile.New(cfg.ProfilesPath()),
		SSHProfiles:       sshprofile.New(cfg.SSHProfilesPath()),
		Snapshots:         snapshot.New(cfg.SnapshotsDir()),
		Templates:         template.New(cfg.TemplatesPath()),
		History:           histSink,
		Notifications:     notify.NewStore(notify.Preference(cfg.Notifications)),
		Notifier:          notify.Default(),
		PreferredTerminal: cfg.Terminal.Preferred,
		StartedAt:         time.Now(),
	}

	return gatewayDeps{deps: deps, close: func() { histSink.Close() }}, nil
}

// runServe wires up the full gateway and races the MCP stdio host, the
// auxiliary TCP sink, and signal-triggered shutdown under an errgroup.
func runServe() error {
	cfg := config.Load(resolveConfigPath())

	removed := health.SweepOrphans(cfg.Dirs.TempDir,
		[]string{cfg.Execution.ScriptPrefix, cfg.Execution.OutputPrefix, cfg.Execution.StreamPrefix},
		cfg.Execution.OrphanAge)
	slog.Info("startup orphan sweep", "removed", removed)

	gw, err := buildDependencies(cfg)
	if err != nil {
		return err
	}
	defer gw.close()
	defer gw.deps.Watch.RemoveAll()

	registry := catalogue.Build(gw.deps)
	mcpServer, err := catalogue.NewMCPServer(registry, nil)
	if err != nil {
		return fmt.Errorf("build MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	var sink *auxsink.Sink
	if cfg.AuxSink.Enabled {
		sink, err = auxsink.Listen(cfg.AuxSink.Addr, cfg.AuxSink.Port)
		if err != nil {
			return err
		}
		sink.SetExecutor(func(ctx context.Context, command string) (string, int, error) {
			result, err := gw.deps.Substrate.Direct(ctx, command, "", 0)
			if err != nil {
				return "", -1, err
			}
			return result.Stdout, result.ExitCode, nil
		})

		group.Go(func() error {
			return sink.Serve(gctx)
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return sink.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		return catalogue.ServeStdio(mcpServer)
	})

	slog.Info("workbench-gateway serving", "aux_sink", cfg.AuxSink.Enabled, "terminal", cfg.Terminal.Preferred)

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
