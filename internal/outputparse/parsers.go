package outputparse

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/valyala/fastjson"
)

// Parsed is the structured result of routing a command's output through
// the matching parser. Kind is one of "git_status", "git_log", "docker_ps",
// "test_results", "ls", "json", or "raw" when nothing matches (spec §4.10).
type Parsed struct {
	Kind string                 `json:"kind"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Parse routes stdout through the parser matching command's prefix. If
// none matches, it falls back to a JSON probe and finally raw passthrough.
func Parse(command, stdout string) Parsed {
	trimmed := strings.TrimSpace(command)
	switch {
	case strings.HasPrefix(trimmed, "git status"):
		return parseGitStatus(stdout)
	case strings.HasPrefix(trimmed, "git log"):
		return parseGitLog(stdout)
	case strings.HasPrefix(trimmed, "docker ps"):
		return parseDockerPS(stdout)
	case strings.HasPrefix(trimmed, "pytest"), strings.HasPrefix(trimmed, "jest"), strings.HasPrefix(trimmed, "swift test"):
		return parseTestResults(stdout)
	case strings.HasPrefix(trimmed, "ls -l"), strings.HasPrefix(trimmed, "ls -la"), strings.HasPrefix(trimmed, "ls -al"):
		return parseLS(stdout)
	}

	if parsed, ok := parseJSON(stdout); ok {
		return parsed
	}
	return Parsed{Kind: "raw", Data: map[string]interface{}{"stdout": stdout}}
}

func parseGitStatus(stdout string) Parsed {
	var staged, unstaged, untracked []string
	for _, line := range strings.Split(stdout, "\n") {
		if len(line) < 3 {
			continue
		}
		x, y, path := line[0], line[1], strings.TrimSpace(line[2:])
		switch {
		case x == '?' && y == '?':
			untracked = append(untracked, path)
		default:
			if x != ' ' {
				staged = append(staged, path)
			}
			if y != ' ' {
				unstaged = append(unstaged, path)
			}
		}
	}
	return Parsed{Kind: "git_status", Data: map[string]interface{}{
		"staged":    staged,
		"unstaged":  unstaged,
		"untracked": untracked,
	}}
}

func parseGitLog(stdout string) Parsed {
	var commits []string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			commits = append(commits, line)
		}
	}
	return Parsed{Kind: "git_log", Data: map[string]interface{}{"commits": commits}}
}

func parseDockerPS(stdout string) Parsed {
	lines := strings.Split(stdout, "\n")
	var rows []string
	for i, line := range lines {
		if i == 0 {
			continue // header row
		}
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, line)
		}
	}
	return Parsed{Kind: "docker_ps", Data: map[string]interface{}{"containers": rows}}
}

var testSummaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+) passed`),
	regexp.MustCompile(`(\d+) failed`),
	regexp.MustCompile(`(\d+) skipped`),
}

func parseTestResults(stdout string) Parsed {
	counts := map[string]interface{}{"passed": 0, "failed": 0, "skipped": 0}
	keys := []string{"passed", "failed", "skipped"}
	for i, re := range testSummaryPatterns {
		if m := re.FindStringSubmatch(stdout); m != nil {
			counts[keys[i]] = atoi(m[1])
		}
	}
	return Parsed{Kind: "test_results", Data: counts}
}

func parseLS(stdout string) Parsed {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) == 0 {
		return Parsed{Kind: "ls", Data: map[string]interface{}{"total": "", "entries": []string{}}}
	}
	total := ""
	entries := lines
	if strings.HasPrefix(lines[0], "total ") {
		total = lines[0]
		entries = lines[1:]
	}
	return Parsed{Kind: "ls", Data: map[string]interface{}{"total": total, "entries": entries}}
}

func parseJSON(stdout string) (Parsed, bool) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return Parsed{}, false
	}
	var p fastjson.Parser
	if _, err := p.Parse(trimmed); err != nil {
		return Parsed{}, false
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(trimmed), "", "  "); err != nil {
		return Parsed{}, false
	}
	return Parsed{Kind: "json", Data: map[string]interface{}{"pretty": pretty.String()}}, true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
