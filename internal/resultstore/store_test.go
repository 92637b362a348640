package resultstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutAndGetLastAlias(t *testing.T) {
	s := New(t.TempDir(), "claude_output_")
	r1 := &CommandResult{ID: "a", ExitCode: 0, Completed: time.Now()}
	r2 := &CommandResult{ID: "b", ExitCode: 1, Completed: time.Now()}
	s.Put(r1)
	s.Put(r2)

	got, notFound := s.Get(LastAlias)
	if notFound != "" {
		t.Fatalf("unexpected not-found: %s", notFound)
	}
	if got.ID != "b" {
		t.Fatalf("expected last alias to point at b, got %s", got.ID)
	}
}

func TestGetMissFallsBackToDisk(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "claude_output_")

	r := CommandResult{ID: "xyz", Command: "echo hi", Stdout: "hi\n", ExitCode: 0, Completed: time.Now()}
	data, _ := json.Marshal(r)
	if err := os.WriteFile(filepath.Join(dir, "claude_output_xyz.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	got, notFound := s.Get("xyz")
	if notFound != "" {
		t.Fatalf("expected disk fallback to find result, got: %s", notFound)
	}
	if got.Stdout != "hi\n" {
		t.Fatalf("unexpected stdout: %q", got.Stdout)
	}
}

func TestGetNotFoundListsRecentFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "claude_output_")

	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, "claude_output_old"+string(rune('a'+i))+".json")
		if err := os.WriteFile(name, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	_, notFound := s.Get("nonexistent")
	if notFound == "" {
		t.Fatalf("expected not-found message")
	}
	if !strings.Contains(notFound, "claude_output_olda.json") {
		t.Fatalf("expected not-found message to list recent result files, got: %s", notFound)
	}
}

func TestAutoRetrieveFindsResultWithinBudget(t *testing.T) {
	s := New(t.TempDir(), "claude_output_")

	go func() {
		time.Sleep(50 * time.Millisecond)
		s.Put(&CommandResult{ID: "job1", ExitCode: 0, Stdout: "done", Completed: time.Now()})
	}()

	// The result lands well before the first 2s tick, so the first poll
	// finds it.
	msg, err := s.AutoRetrieve(context.Background(), func(ctx context.Context) (string, string, error) {
		return "job1", "dispatched job1", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "command job1 completed") || !strings.Contains(msg, "done") {
		t.Fatalf("expected a completion message with the result output, got: %s", msg)
	}

	if AutoRetrieveInterval != 2*time.Second {
		t.Fatalf("auto-retrieve interval must be exactly 2s per spec")
	}
	if AutoRetrieveMaxIterations != 60 {
		t.Fatalf("auto-retrieve max iterations must be exactly 60 per spec")
	}
}

func TestAutoRetrieveCancellable(t *testing.T) {
	s := New(t.TempDir(), "claude_output_")
	ctx, cancel := context.WithCancel(context.Background())

	dispatch := func(ctx context.Context) (string, string, error) {
		return "jobX", "dispatched jobX", nil
	}

	cancel()
	msg, err := s.AutoRetrieve(ctx, dispatch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected a message on cancellation")
	}
}
