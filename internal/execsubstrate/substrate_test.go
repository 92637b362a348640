package execsubstrate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devbridge/workbench-gateway/internal/config"
	"github.com/devbridge/workbench-gateway/internal/resultstore"
)

func testSubstrate(t *testing.T) *Substrate {
	t.Helper()
	cfg := config.Default()
	cfg.Dirs.TempDir = t.TempDir()
	store := resultstore.New(cfg.Dirs.TempDir, cfg.Execution.OutputPrefix)
	s, err := New(cfg, store, &fakeAutomation{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

type fakeAutomation struct {
	lastScript string
	err        error
}

func (f *fakeAutomation) RunScriptedAction(ctx context.Context, script string) (string, error) {
	f.lastScript = script
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func (f *fakeAutomation) SendToTab(ctx context.Context, tabID, text string) error { return nil }

func (f *fakeAutomation) CloseTab(ctx context.Context, tabID string) error { return nil }

func (f *fakeAutomation) InstalledTerminals(ctx context.Context) []string { return []string{"Terminal"} }

func TestDirectCapturesOutputAndExitCode(t *testing.T) {
	s := testSubstrate(t)
	result, err := s.Direct(context.Background(), "echo hello; exit 3", "", time.Second)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Stdout != "hello\n" {
		t.Fatalf("Stdout = %q", result.Stdout)
	}
}

func TestDirectRespectsSecurityGate(t *testing.T) {
	s := testSubstrate(t)
	s.security, _ = NewSecurityGate(&config.SecurityConfig{BlockedCommands: []string{"rm -rf /"}})
	if _, err := s.Direct(context.Background(), "rm -rf / --no-preserve-root", "", time.Second); err == nil {
		t.Fatal("expected blocked command error")
	}
}

func TestDirectTimeoutKillsSubprocess(t *testing.T) {
	s := testSubstrate(t)
	result, err := s.Direct(context.Background(), "sleep 5", "", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}
	if result.ExitCode == 0 {
		t.Fatalf("expected non-zero exit code for timed-out command")
	}
}

func TestDispatchTerminalRefusesInteractiveCommand(t *testing.T) {
	s := testSubstrate(t)
	if _, err := s.DispatchTerminal(context.Background(), "vim file.txt", ""); err == nil {
		t.Fatal("expected interactive command to be refused")
	}
}

func TestDispatchTerminalWritesScriptAndReturnsID(t *testing.T) {
	s := testSubstrate(t)
	auto := &fakeAutomation{}
	s.auto = auto

	id, err := s.DispatchTerminal(context.Background(), "echo hi", "")
	if err != nil {
		t.Fatalf("DispatchTerminal: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	if auto.lastScript == "" {
		t.Fatal("expected a script path handed to host automation")
	}
	data, err := os.ReadFile(auto.lastScript)
	if err != nil {
		t.Fatalf("read generated script: %v", err)
	}
	script := string(data)
	if !containsAll(script, "exec > >(tee", "__exit_code=$?", "python3 -c", "touch") {
		t.Fatalf("generated script missing expected structure:\n%s", script)
	}
}

func TestCollectTerminalResultPreservesExitCode(t *testing.T) {
	s := testSubstrate(t)

	id := "fixed-id"
	outputPath := s.outputPath(id)
	markerPath := outputPath + ".complete"

	payload := terminalResultFile{
		ID:        id,
		Command:   "false",
		Stdout:    "",
		Stderr:    "",
		ExitCode:  7,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		t.Fatalf("write output: %v", err)
	}
	if err := os.WriteFile(markerPath, nil, 0644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	result, err := s.collectTerminalResult(id, outputPath, markerPath)
	if err != nil {
		t.Fatalf("collectTerminalResult: %v", err)
	}
	if result.ExitCode != 7 {
		t.Fatalf("ExitCode = %d, want 7", result.ExitCode)
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Fatal("expected output file to be removed")
	}
	if _, err := os.Stat(markerPath); !os.IsNotExist(err) {
		t.Fatal("expected marker file to be removed")
	}
}

func TestCollectTerminalResultCorruptFileIsDiagnosable(t *testing.T) {
	s := testSubstrate(t)
	id := "corrupt-id"
	outputPath := s.outputPath(id)
	markerPath := outputPath + ".complete"

	if err := os.WriteFile(outputPath, []byte("not json"), 0644); err != nil {
		t.Fatalf("write output: %v", err)
	}
	if err := os.WriteFile(markerPath, nil, 0644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	if _, err := s.collectTerminalResult(id, outputPath, markerPath); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatal("corrupt result file should be left in place for diagnosis")
	}
}

func TestWaitForCompletionTimesOutCooperatively(t *testing.T) {
	s := testSubstrate(t)
	s.completionTimeout = 30 * time.Millisecond
	s.completionPoll = 5 * time.Millisecond

	_, err := s.WaitForCompletion(context.Background(), "never-appears")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSSHRejectsMissingIdentityFile(t *testing.T) {
	s := testSubstrate(t)
	target := SSHTarget{Host: "example.com", User: "dev", IdentityFile: filepath.Join(t.TempDir(), "absent_key")}
	_, err := s.SSH(context.Background(), target, "echo hi", time.Second)
	if err == nil {
		t.Fatal("expected missing identity file error")
	}
}

func containsAll(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
