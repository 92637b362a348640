package template

import (
	"fmt"
	"strings"
)

// Render substitutes each {{variable}} in t.Command with the value from
// values, verbatim, and rejects if any required variable is absent (spec
// §4.8 "Running a template").
func (t Template) Render(values map[string]string) (string, error) {
	var missing []string
	for _, v := range t.Variables {
		if _, ok := values[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required template variables: %v", missing)
	}

	out := t.Command
	for _, v := range t.Variables {
		out = strings.ReplaceAll(out, "{{"+v+"}}", values[v])
	}
	return out, nil
}
