// Package outputparse holds the environment probe shell snippet and the
// output parsers applied after execute_and_parse (spec §4.10).
package outputparse

import "strings"

// ProbeScript is a single stateless shell snippet that emits key=value
// lines describing the calling shell's environment. It has no side effects
// beyond the process launches needed to read versions/state.
const ProbeScript = `
echo "cwd=$(pwd)"
echo "user=$(whoami)"
echo "host=$(hostname)"
echo "shell=${SHELL:-unknown}"
if git rev-parse --is-inside-work-tree >/dev/null 2>&1; then
  echo "git_branch=$(git rev-parse --abbrev-ref HEAD 2>/dev/null)"
  echo "git_remote=$(git remote get-url origin 2>/dev/null)"
  echo "git_dirty=$([ -n \"$(git status --porcelain 2>/dev/null)\" ] && echo true || echo false)"
else
  echo "git_branch="
fi
echo "venv=${VIRTUAL_ENV:-}"
echo "conda_env=${CONDA_DEFAULT_ENV:-}"
for tool in node npm python3 ruby go rustc swift xcodebuild; do
  version=$("$tool" --version 2>/dev/null | head -n1)
  echo "${tool}_version=${version}"
done
echo "docker_running=$(docker ps -q 2>/dev/null | wc -l | tr -d ' ')"
for marker in Makefile package.json Package.swift Cargo.toml requirements.txt Dockerfile; do
  if [ -f "$marker" ]; then
    echo "has_${marker}=true"
  else
    echo "has_${marker}=false"
  fi
done
echo "free_disk=$(df -h . 2>/dev/null | awk 'NR==2{print $4}')"
`

// ParseProbeOutput splits ProbeScript's stdout into a key/value map, one
// entry per "key=value" line. Lines without an "=" are ignored.
func ParseProbeOutput(stdout string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(stdout, "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		out[key] = value
	}
	return out
}
