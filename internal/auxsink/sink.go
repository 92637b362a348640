// Package auxsink implements the auxiliary TCP JSON request sink (spec §5,
// §9 Open Question). The source accepts `suggest`/`execute`/`ping`
// requests; its purpose duplicates the tool surface and is undocumented.
// This core preserves the port-binding and graceful-shutdown contract;
// per SPEC_FULL.md's resolution of that Open Question, `execute` routes
// to the same direct-execution path as the `execute_command` tool when an
// Executor is installed, and everything else stays exactly as undefined
// as spec.md describes it.
package auxsink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Request is the shape of one JSON line on the connection.
type Request struct {
	Kind  string `json:"kind"` // "suggest" | "execute" | "ping"
	Query string `json:"query,omitempty"`
}

// Response is the canned reply sent back.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Executor runs a command via the same direct-execution path execute_command
// uses. Installed by the process wiring the sink up (cmd/root.go's serve
// command); nil until then, in which case "execute" falls back to the
// canned pointer response.
type Executor func(ctx context.Context, command string) (stdout string, exitCode int, err error)

// Sink is the auxiliary TCP listener. Binding failure is fatal at startup
// (spec §5 "failure to bind is fatal at startup with a clear message").
type Sink struct {
	listener net.Listener
	limiter  *rate.Limiter
	executor Executor

	mu   sync.Mutex
	wg   sync.WaitGroup
	done chan struct{}
}

// SetExecutor installs the direct-execution path for "execute" requests.
// Call before Serve; the sink does not guard concurrent reads of this
// field against concurrent SetExecutor calls.
func (s *Sink) SetExecutor(fn Executor) {
	s.executor = fn
}

// Listen binds addr:port. Callers should treat a non-nil error as fatal.
func Listen(addr string, port int) (*Sink, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("bind auxiliary sink %s:%d: %w", addr, port, err)
	}
	return &Sink{
		listener: listener,
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 20), // shared: 10 accepted connections/s, burst 20
		done:     make(chan struct{}),
	}, nil
}

// Serve accepts connections until ctx is cancelled or Shutdown is called.
func (s *Sink) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		s.wg.Add(1)
		go s.handle(ctx, conn)
	}
}

// Shutdown stops accepting new connections and waits for in-flight ones to
// finish, bounded by ctx.
func (s *Sink) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
	s.listener.Close()

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sink) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	if err := s.limiter.Wait(ctx); err != nil {
		return
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			writeResponse(conn, Response{OK: false, Message: "malformed request"})
			continue
		}
		writeResponse(conn, s.respond(ctx, req))
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("auxiliary sink connection error", "remote", conn.RemoteAddr(), "error", err)
	}
}

// respond routes "execute" through the installed Executor when present;
// everything else (and "execute" with no Executor installed) falls to
// cannedResponse.
func (s *Sink) respond(ctx context.Context, req Request) Response {
	if req.Kind == "execute" && s.executor != nil {
		stdout, exitCode, err := s.executor(ctx, req.Query)
		if err != nil {
			return Response{OK: false, Message: err.Error()}
		}
		return Response{OK: exitCode == 0, Message: fmt.Sprintf("exit %d: %s", exitCode, stdout)}
	}
	return cannedResponse(req)
}

// cannedResponse returns a fixed reply per request kind. Beyond the
// installed-Executor "execute" path in respond, the rest of this sink's
// semantics are deliberately left as undefined as spec.md describes them.
func cannedResponse(req Request) Response {
	switch req.Kind {
	case "ping":
		return Response{OK: true, Message: "pong"}
	case "suggest":
		return Response{OK: true, Message: "use suggest_command over the primary tool transport"}
	case "execute":
		return Response{OK: true, Message: "use execute_command over the primary tool transport"}
	default:
		return Response{OK: false, Message: fmt.Sprintf("unknown request kind %q", req.Kind)}
	}
}

func writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
