// Package hostauto defines the boundary to the host GUI-automation layer:
// the only path by which this gateway can open terminal tabs or synthesise
// keystrokes (spec §4.2, §4.7, §9). Implementing that layer (scripted
// keystrokes, window activation) is explicitly out of scope (spec §1
// Non-goals) — this package is the opaque collaborator interface plus a
// best-effort default that shells out where a scripting front-end exists,
// and otherwise reports a clear collaborator error.
package hostauto

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Automation is what this core needs from the host automation collaborator:
// run a scripted action (open a tab and execute a script file in it), and
// drive individual tabs for the multi-tab session manager (spec §4.7).
type Automation interface {
	// RunScriptedAction opens a new terminal tab and executes scriptPath in
	// it, returning the host's tab identifier.
	RunScriptedAction(ctx context.Context, scriptPath string) (string, error)
	// SendToTab types text into the tab identified by tabID, followed by a
	// return keystroke, as if the user had typed it (spec §4.7 "session
	// send").
	SendToTab(ctx context.Context, tabID, text string) error
	// CloseTab closes the tab identified by tabID.
	CloseTab(ctx context.Context, tabID string) error
	// InstalledTerminals reports which terminal applications the host
	// automation layer can currently drive — used to enrich Collaborator
	// error recovery (spec §7).
	InstalledTerminals(ctx context.Context) []string
}

// Default returns the best-effort platform automation collaborator.
func Default() Automation {
	if runtime.GOOS == "darwin" {
		return &osascriptAutomation{}
	}
	return &unsupportedAutomation{}
}

// osascriptAutomation drives terminal apps via AppleScript, mirroring how
// the source program's host-automation layer is described to work (spec
// §4.7, §9): a single opaque `runScriptedAction(text)` entry point.
type osascriptAutomation struct{}

func (a *osascriptAutomation) RunScriptedAction(ctx context.Context, scriptPath string) (string, error) {
	applescript := fmt.Sprintf(`tell application "Terminal"
	activate
	set newTab to do script %s
	return id of newTab as string
end tell`, quoteAppleScript(scriptPath))
	return a.run(ctx, applescript)
}

func (a *osascriptAutomation) SendToTab(ctx context.Context, tabID, text string) error {
	applescript := fmt.Sprintf(`tell application "Terminal"
	do script %s in (tab id %s of window 1)
end tell`, quoteAppleScript(text), quoteAppleScript(tabID))
	_, err := a.run(ctx, applescript)
	return err
}

func (a *osascriptAutomation) CloseTab(ctx context.Context, tabID string) error {
	applescript := fmt.Sprintf(`tell application "Terminal"
	close (tab id %s of window 1)
end tell`, quoteAppleScript(tabID))
	_, err := a.run(ctx, applescript)
	return err
}

func (a *osascriptAutomation) run(ctx context.Context, applescript string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", applescript)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("host automation failed: %w (%s)", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// quoteAppleScript renders s as an AppleScript string literal.
func quoteAppleScript(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (a *osascriptAutomation) InstalledTerminals(ctx context.Context) []string {
	candidates := []string{"Terminal", "iTerm2", "Warp"}
	var installed []string
	for _, name := range candidates {
		check := fmt.Sprintf(`id of application %q`, name)
		cmd := exec.CommandContext(ctx, "osascript", "-e", check)
		if err := cmd.Run(); err == nil {
			installed = append(installed, name)
		}
	}
	return installed
}

// unsupportedAutomation reports a distinguished Collaborator error kind on
// platforms with no scripting front-end wired (spec §7).
type unsupportedAutomation struct{}

func (a *unsupportedAutomation) RunScriptedAction(ctx context.Context, scriptPath string) (string, error) {
	return "", fmt.Errorf("host automation is not available on %s", runtime.GOOS)
}

func (a *unsupportedAutomation) SendToTab(ctx context.Context, tabID, text string) error {
	return fmt.Errorf("host automation is not available on %s", runtime.GOOS)
}

func (a *unsupportedAutomation) CloseTab(ctx context.Context, tabID string) error {
	return fmt.Errorf("host automation is not available on %s", runtime.GOOS)
}

func (a *unsupportedAutomation) InstalledTerminals(ctx context.Context) []string { return nil }
