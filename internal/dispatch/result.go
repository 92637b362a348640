// Package dispatch is the tool catalogue & dispatcher (spec §4.1): the
// registry of named tools, argument validation, and the envelope every
// tool call is packaged into before it crosses the transport boundary.
package dispatch

// Result is the unified return envelope from a tool call: an ordered list
// of text segments plus an error flag, matching the documented
// `{content, isError}` contract (spec §4.1, §6).
type Result struct {
	Content []string
	IsError bool
}

// Text builds a successful, single-segment result.
func Text(s string) *Result {
	return &Result{Content: []string{s}}
}

// Segments builds a successful result from multiple text segments.
func Segments(segs ...string) *Result {
	return &Result{Content: segs}
}

// Error builds an error result. Handlers never panic; every failure this
// package surfaces becomes one of these instead (spec §7).
func Error(format string) *Result {
	return &Result{Content: []string{format}, IsError: true}
}

// Advisory builds a non-error result carrying informational content, for
// timeouts and cautious-command notices that are not failures (spec §7).
func Advisory(s string) *Result {
	return &Result{Content: []string{s}}
}
