package outputparse

import "testing"

func TestParseGitStatusClassifiesByColumn(t *testing.T) {
	stdout := "M  staged.go\n M unstaged.go\n?? untracked.go\n"
	p := Parse("git status --porcelain", stdout)
	if p.Kind != "git_status" {
		t.Fatalf("Kind = %s", p.Kind)
	}
	staged := p.Data["staged"].([]string)
	unstaged := p.Data["unstaged"].([]string)
	untracked := p.Data["untracked"].([]string)
	if len(staged) != 1 || staged[0] != "staged.go" {
		t.Fatalf("staged = %v", staged)
	}
	if len(unstaged) != 1 || unstaged[0] != "unstaged.go" {
		t.Fatalf("unstaged = %v", unstaged)
	}
	if len(untracked) != 1 || untracked[0] != "untracked.go" {
		t.Fatalf("untracked = %v", untracked)
	}
}

func TestParseDockerPSSkipsHeader(t *testing.T) {
	stdout := "CONTAINER ID   IMAGE\nabc123   nginx\ndef456   redis\n"
	p := Parse("docker ps", stdout)
	containers := p.Data["containers"].([]string)
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %v", containers)
	}
}

func TestParseTestResultsExtractsCounts(t *testing.T) {
	stdout := "=== 12 passed, 2 failed, 1 skipped in 3.2s ==="
	p := Parse("pytest", stdout)
	if p.Data["passed"] != 12 || p.Data["failed"] != 2 || p.Data["skipped"] != 1 {
		t.Fatalf("counts = %+v", p.Data)
	}
}

func TestParseLSSeparatesTotalLine(t *testing.T) {
	stdout := "total 16\ndrwxr-xr-x  2 user user 4096 file1\n-rw-r--r--  1 user user  100 file2\n"
	p := Parse("ls -la", stdout)
	if p.Data["total"] != "total 16" {
		t.Fatalf("total = %v", p.Data["total"])
	}
	entries := p.Data["entries"].([]string)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}
}

func TestParseJSONFallback(t *testing.T) {
	p := Parse("curl example", `{"ok":true,"count":3}`)
	if p.Kind != "json" {
		t.Fatalf("Kind = %s, want json", p.Kind)
	}
}

func TestParseRawFallback(t *testing.T) {
	p := Parse("echo hi", "hi\n")
	if p.Kind != "raw" {
		t.Fatalf("Kind = %s, want raw", p.Kind)
	}
}

func TestParseProbeOutputSplitsKeyValueLines(t *testing.T) {
	stdout := "cwd=/tmp\nuser=dev\ngit_branch=main\nnot_a_kv_line\n"
	kv := ParseProbeOutput(stdout)
	if kv["cwd"] != "/tmp" || kv["user"] != "dev" || kv["git_branch"] != "main" {
		t.Fatalf("kv = %+v", kv)
	}
	if _, ok := kv["not_a_kv_line"]; ok {
		t.Fatalf("expected lines without '=' to be ignored")
	}
}
