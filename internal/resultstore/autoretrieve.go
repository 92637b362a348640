package resultstore

import (
	"context"
	"fmt"
	"time"
)

// AutoRetrieveInterval and AutoRetrieveMaxIterations are the fixed cadence
// mandated by spec §4.3: exactly 2-second polls, up to 60 iterations (two
// minutes total).
const (
	AutoRetrieveInterval      = 2 * time.Second
	AutoRetrieveMaxIterations = 60
)

// DispatchFunc starts a terminal-mediated execution and returns the
// assigned command id plus the dispatch message to report on timeout.
type DispatchFunc func(ctx context.Context) (id string, dispatchMessage string, err error)

// AutoRetrieve dispatches a terminal-mediated execution, then polls the
// store on the fixed cadence until a result appears or the budget is
// exhausted. It is cooperative with ctx cancellation so it never spawns
// unbounded background work outliving the caller's request (spec §9 — the
// retained lesson from the background-monitoring crash).
func (s *Store) AutoRetrieve(ctx context.Context, dispatch DispatchFunc) (string, error) {
	start := time.Now()

	id, dispatchMessage, err := dispatch(ctx)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(AutoRetrieveInterval)
	defer ticker.Stop()

	for i := 0; i < AutoRetrieveMaxIterations; i++ {
		select {
		case <-ctx.Done():
			return fmt.Sprintf("%s (command id: %s, cancelled while waiting)", dispatchMessage, id), nil
		case <-ticker.C:
			if r, notFound := s.Get(id); notFound == "" && r != nil {
				elapsed := time.Since(start).Round(time.Millisecond)
				return fmt.Sprintf(
					"command %s completed after %s (exit %d):\n%s",
					id, elapsed, r.ExitCode, composeOutput(r),
				), nil
			}
		}
	}

	return fmt.Sprintf("%s (command id: %s, still running after 2 minutes — retrieve manually with get_command_output)", dispatchMessage, id), nil
}

func composeOutput(r *CommandResult) string {
	out := r.Stdout
	if r.Stderr != "" {
		if out != "" {
			out += "\n"
		}
		out += "STDERR:\n" + r.Stderr
	}
	if out == "" {
		out = "(no output)"
	}
	return out
}
