package health

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/devbridge/workbench-gateway/internal/config"
)

// Status is the overall self-check verdict.
type Status string

const (
	Healthy   Status = "healthy"
	Warning   Status = "warning"
	Unhealthy Status = "unhealthy"
)

// HistorySink is the subset of the history sink the self-check needs.
type HistorySink interface {
	Reachable() bool
	Size() (int64, error)
	RecentExitCodes(n int) ([]int, error)
}

// Report is the self_check tool's structured result (spec §4.11).
type Report struct {
	Status             Status   `json:"status"`
	ConfigValid        bool     `json:"configValid"`
	HistoryReachable   bool     `json:"historyReachable"`
	HistorySize        string   `json:"historySize"`
	PreferredTerminal   string   `json:"preferredTerminal"`
	TerminalRunning    bool     `json:"terminalRunning"`
	TempDirWritable    bool     `json:"tempDirWritable"`
	OrphanCount        int      `json:"orphanCount"`
	RecentErrorRate    float64  `json:"recentErrorRate"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Check runs the full self-check described in spec §4.11: configuration
// validity, history reachability+size, preferred terminal running state,
// temp-directory writability plus orphan count (warn at >50), and
// recent-error rate over the last ten completed commands (warn at >=30%).
func Check(cfg *config.Config, hist HistorySink, preferredTerminal string) Report {
	report := Report{Status: Healthy, PreferredTerminal: preferredTerminal}

	report.ConfigValid = validateConfig(cfg)
	if !report.ConfigValid {
		report.Warnings = append(report.Warnings, "configuration failed validation")
		report.Status = Unhealthy
	}

	report.HistoryReachable = hist != nil && hist.Reachable()
	if !report.HistoryReachable {
		report.Warnings = append(report.Warnings, "history store unreachable")
		report.Status = Unhealthy
	} else if size, err := hist.Size(); err == nil {
		report.HistorySize = humanize.Bytes(uint64(size))
	}

	report.TerminalRunning = isTerminalRunning(preferredTerminal)

	writable, orphanCount := checkTempDir(cfg.Dirs.TempDir, []string{cfg.Execution.ScriptPrefix, cfg.Execution.OutputPrefix, cfg.Execution.StreamPrefix})
	report.TempDirWritable = writable
	report.OrphanCount = orphanCount
	if !writable {
		report.Warnings = append(report.Warnings, "temp directory is not writable")
		report.Status = Unhealthy
	} else if orphanCount > 50 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d orphaned execution files in temp dir", orphanCount))
		downgrade(&report.Status, Warning)
	}

	if hist != nil {
		if codes, err := hist.RecentExitCodes(10); err == nil && len(codes) > 0 {
			failures := 0
			for _, c := range codes {
				if c != 0 {
					failures++
				}
			}
			report.RecentErrorRate = float64(failures) / float64(len(codes))
			if report.RecentErrorRate >= 0.30 {
				report.Warnings = append(report.Warnings, fmt.Sprintf("recent error rate %.0f%% over last %d commands", report.RecentErrorRate*100, len(codes)))
				downgrade(&report.Status, Warning)
			}
		}
	}

	return report
}

func downgrade(status *Status, candidate Status) {
	if *status == Healthy {
		*status = candidate
	}
}

func validateConfig(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	if cfg.Execution.DefaultTimeout <= 0 || cfg.Execution.CompletionPollInterval <= 0 {
		return false
	}
	if cfg.Dirs.TempDir == "" {
		return false
	}
	return true
}

func isTerminalRunning(preferred string) bool {
	if preferred == "" {
		return false
	}
	procs, err := ps.Processes()
	if err != nil {
		return false
	}
	for _, p := range procs {
		if strings.Contains(strings.ToLower(p.Executable()), strings.ToLower(preferred)) {
			return true
		}
	}
	return false
}

func checkTempDir(tempDir string, prefixes []string) (writable bool, orphanCount int) {
	probe := filepath.Join(tempDir, "workbench_health_probe_"+uuid.NewString())
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return false, 0
	}
	os.Remove(probe)

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return true, 0
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if hasAnyPrefix(e.Name(), prefixes) {
			orphanCount++
		}
	}
	return true, orphanCount
}
