package auxsink

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestListenBindsAndServesPing(t *testing.T) {
	s, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := s.listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	go s.Serve(ctx)
	defer cancel()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	req, _ := json.Marshal(Request{Kind: "ping"})
	conn.Write(append(req, '\n'))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Fatalf("expected a response line: %v", scanner.Err())
	}
	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.OK || resp.Message != "pong" {
		t.Fatalf("resp = %+v, want ok pong", resp)
	}
}

func TestExecuteRoutesThroughInstalledExecutor(t *testing.T) {
	s, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	s.SetExecutor(func(ctx context.Context, command string) (string, int, error) {
		return "ran: " + command, 0, nil
	})
	addr := s.listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	go s.Serve(ctx)
	defer cancel()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	req, _ := json.Marshal(Request{Kind: "execute", Query: "echo hi"})
	conn.Write(append(req, '\n'))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Fatalf("expected a response line: %v", scanner.Err())
	}
	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.OK || resp.Message != "exit 0: ran: echo hi" {
		t.Fatalf("resp = %+v, want executor result", resp)
	}
}

func TestUnknownKindReturnsNotOK(t *testing.T) {
	resp := cannedResponse(Request{Kind: "frobnicate"})
	if resp.OK {
		t.Fatal("expected OK=false for unknown request kind")
	}
}

func TestShutdownStopsAcceptingConnections(t *testing.T) {
	s, err := Listen("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
