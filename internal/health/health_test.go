package health

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/devbridge/workbench-gateway/internal/config"
)

type fakeHistory struct {
	reachable bool
	size      int64
	codes     []int
}

func (f *fakeHistory) Reachable() bool            { return f.reachable }
func (f *fakeHistory) Size() (int64, error)       { return f.size, nil }
func (f *fakeHistory) RecentExitCodes(n int) ([]int, error) {
	if len(f.codes) > n {
		return f.codes[:n], nil
	}
	return f.codes, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dirs.TempDir = t.TempDir()
	return cfg
}

func TestCheckHealthyWhenEverythingGood(t *testing.T) {
	cfg := testConfig(t)
	hist := &fakeHistory{reachable: true, size: 1024, codes: []int{0, 0, 0}}
	report := Check(cfg, hist, "")
	if report.Status != Healthy {
		t.Fatalf("Status = %s, want healthy; warnings=%v", report.Status, report.Warnings)
	}
}

func TestCheckUnhealthyWhenHistoryUnreachable(t *testing.T) {
	cfg := testConfig(t)
	hist := &fakeHistory{reachable: false}
	report := Check(cfg, hist, "")
	if report.Status != Unhealthy {
		t.Fatalf("Status = %s, want unhealthy", report.Status)
	}
}

func TestCheckWarnsOnHighErrorRate(t *testing.T) {
	cfg := testConfig(t)
	hist := &fakeHistory{reachable: true, codes: []int{1, 1, 1, 0, 0, 0, 0, 0, 0, 0}}
	report := Check(cfg, hist, "")
	if report.Status != Warning {
		t.Fatalf("Status = %s, want warning for 30%% error rate", report.Status)
	}
}

func TestCheckWarnsOnOrphanCount(t *testing.T) {
	cfg := testConfig(t)
	for i := 0; i < 51; i++ {
		os.WriteFile(filepath.Join(cfg.Dirs.TempDir, cfg.Execution.OutputPrefix+"x"+strconv.Itoa(i)+".json"), []byte("{}"), 0644)
	}
	hist := &fakeHistory{reachable: true}
	report := Check(cfg, hist, "")
	if report.Status != Warning {
		t.Fatalf("Status = %s, want warning for >50 orphans (count=%d)", report.Status, report.OrphanCount)
	}
}

func TestSweepOrphansRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "claude_output_old.json")
	os.WriteFile(old, []byte("{}"), 0644)
	oldTime := time.Now().Add(-48 * time.Hour)
	os.Chtimes(old, oldTime, oldTime)

	fresh := filepath.Join(dir, "claude_output_fresh.json")
	os.WriteFile(fresh, []byte("{}"), 0644)

	removed := SweepOrphans(dir, []string{"claude_output_"}, 24*time.Hour)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected old file to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("expected fresh file to remain")
	}
}
