package template

import (
	"regexp"
	"sort"
)

// placeholderPattern matches {{identifier}} where identifier is
// [A-Za-z_][A-Za-z0-9_]* (spec §4.8).
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// ExtractVariables returns the distinct identifiers syntactically appearing
// as {{placeholder}} in command, sorted for deterministic output. The
// extracted set is exactly the distinct identifiers that appear — the
// invariant in spec §3.
func ExtractVariables(command string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(command, -1)
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		seen[m[1]] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
