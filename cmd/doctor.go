package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/devbridge/workbench-gateway/internal/config"
	"github.com/devbridge/workbench-gateway/internal/health"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

// runDoctor is the CLI-facing counterpart of the self_check tool: same
// health.Check report, rendered as a sectioned human report instead of a
// single text blob, plus a few checks only worth doing once at the
// terminal (binaries on PATH, config dir layout).
func runDoctor() {
	fmt.Println("workbench-gateway doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (using defaults — file not found)")
	} else {
		fmt.Println(" (OK)")
	}
	cfg := config.Load(cfgPath)

	gw, err := buildDependencies(cfg)
	if err != nil {
		fmt.Printf("  Wiring error: %s\n", err)
		return
	}
	defer gw.close()

	report := health.Check(cfg, gw.deps.History, cfg.Terminal.Preferred)

	fmt.Println()
	fmt.Println("  Health:")
	fmt.Printf("    %-20s %s\n", "Status:", report.Status)
	fmt.Printf("    %-20s %v\n", "Config valid:", report.ConfigValid)
	fmt.Printf("    %-20s %v (size %s)\n", "History reachable:", report.HistoryReachable, report.HistorySize)
	fmt.Printf("    %-20s %v\n", "Temp dir writable:", report.TempDirWritable)
	fmt.Printf("    %-20s %d\n", "Orphaned temp files:", report.OrphanCount)
	fmt.Printf("    %-20s %.0f%%\n", "Recent error rate:", report.RecentErrorRate*100)
	fmt.Printf("    %-20s %q (running: %v)\n", "Preferred terminal:", report.PreferredTerminal, report.TerminalRunning)
	for _, w := range report.Warnings {
		fmt.Printf("    warning: %s\n", w)
	}

	fmt.Println()
	fmt.Println("  Directories:")
	checkDir("Config dir", cfg.Dirs.ConfigDir)
	checkDir("Temp dir", cfg.Dirs.TempDir)

	fmt.Println()
	fmt.Println("  External Tools:")
	checkBinary("git")
	checkBinary("ssh")
	checkBinary("docker")

	fmt.Println()
	fmt.Println("  Stores:")
	fmt.Printf("    %-20s %d\n", "Workspace profiles:", len(gw.deps.Profiles.List()))
	fmt.Printf("    %-20s %d\n", "SSH profiles:", len(gw.deps.SSHProfiles.List()))
	fmt.Printf("    %-20s %d\n", "Templates:", len(gw.deps.Templates.List("")))

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkDir(label, path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("    %-20s %s (NOT FOUND)\n", label+":", path)
		return
	}
	fmt.Printf("    %-20s %s (OK)\n", label+":", path)
}

func checkBinary(name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Printf("    %-12s NOT FOUND\n", name+":")
	} else {
		fmt.Printf("    %-12s %s\n", name+":", path)
	}
}
