package termsession

import (
	"context"
	"fmt"
	"testing"
)

type fakeAutomation struct {
	nextTabID int
	sent      []string
	closed    []string
}

func (f *fakeAutomation) RunScriptedAction(ctx context.Context, scriptPath string) (string, error) {
	f.nextTabID++
	return fmt.Sprintf("tab-%d", f.nextTabID), nil
}

func (f *fakeAutomation) SendToTab(ctx context.Context, tabID, text string) error {
	f.sent = append(f.sent, tabID+":"+text)
	return nil
}

func (f *fakeAutomation) CloseTab(ctx context.Context, tabID string) error {
	f.closed = append(f.closed, tabID)
	return nil
}

func (f *fakeAutomation) InstalledTerminals(ctx context.Context) []string { return []string{"Terminal"} }

func TestOpenAssignsMonotonicTabIndexPerTerminal(t *testing.T) {
	auto := &fakeAutomation{}
	m := NewManager(auto)

	s1, err := m.Open(context.Background(), "build", "Terminal", "/tmp/a.sh")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s2, err := m.Open(context.Background(), "logs", "Terminal", "/tmp/b.sh")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s3, err := m.Open(context.Background(), "other-term", "iTerm2", "/tmp/c.sh")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if s1.TabIndex != 0 || s2.TabIndex != 1 {
		t.Fatalf("expected monotonic indices 0,1 for Terminal; got %d,%d", s1.TabIndex, s2.TabIndex)
	}
	if s3.TabIndex != 0 {
		t.Fatalf("expected fresh counter for iTerm2; got %d", s3.TabIndex)
	}
}

func TestOpenRejectsDuplicateName(t *testing.T) {
	auto := &fakeAutomation{}
	m := NewManager(auto)
	if _, err := m.Open(context.Background(), "dup", "Terminal", "/tmp/a.sh"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := m.Open(context.Background(), "dup", "Terminal", "/tmp/b.sh"); err == nil {
		t.Fatal("expected duplicate-name error")
	}
}

func TestSendIncrementsCommandCount(t *testing.T) {
	auto := &fakeAutomation{}
	m := NewManager(auto)
	if _, err := m.Open(context.Background(), "s", "Terminal", "/tmp/a.sh"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.Send(context.Background(), "s", "ls -la"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	session, ok := m.Get("s")
	if !ok {
		t.Fatal("expected session to exist")
	}
	if session.CommandCount != 1 {
		t.Fatalf("CommandCount = %d, want 1", session.CommandCount)
	}
}

func TestCloseTabIndexNotReused(t *testing.T) {
	auto := &fakeAutomation{}
	m := NewManager(auto)
	if _, err := m.Open(context.Background(), "a", "Terminal", "/tmp/a.sh"); err != nil {
		t.Fatalf("Open a: %v", err)
	}
	if err := m.Close(context.Background(), "a"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s, err := m.Open(context.Background(), "b", "Terminal", "/tmp/b.sh")
	if err != nil {
		t.Fatalf("Open b: %v", err)
	}
	if s.TabIndex != 1 {
		t.Fatalf("TabIndex = %d, want 1 (no reuse after close)", s.TabIndex)
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("expected closed session to be gone")
	}
}

func TestListOrdersByCreation(t *testing.T) {
	auto := &fakeAutomation{}
	m := NewManager(auto)
	m.Open(context.Background(), "first", "Terminal", "/tmp/a.sh")
	m.Open(context.Background(), "second", "Terminal", "/tmp/b.sh")

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("expected creation order first,second; got %s,%s", list[0].Name, list[1].Name)
	}
}
