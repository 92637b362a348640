package dispatch

import (
	"context"
	"testing"
)

func echoTool() Tool {
	return NewFunc("echo", "echoes its message arg", ObjectSchema(map[string]interface{}{
		"message": StringProp("text to echo"),
	}), func(ctx context.Context, args Args) *Result {
		return Text(args.String("message"))
	})
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil)
	r := d.Dispatch(context.Background(), "nope", nil)
	if !r.IsError {
		t.Fatalf("expected isError for unknown tool")
	}
}

func TestDispatchSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())
	d := NewDispatcher(reg, nil)

	r := d.Dispatch(context.Background(), "echo", Args{"message": "hi"})
	if r.IsError || len(r.Content) != 1 || r.Content[0] != "hi" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestDispatchPolicyDenies(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())
	policy := NewPolicy(nil, []string{"echo"})
	d := NewDispatcher(reg, policy)

	r := d.Dispatch(context.Background(), "echo", Args{"message": "hi"})
	if !r.IsError {
		t.Fatalf("expected policy denial to error")
	}
}

func TestDispatchPanicRecovered(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFunc("boom", "panics", ObjectSchema(nil), func(ctx context.Context, args Args) *Result {
		panic("kaboom")
	}))
	d := NewDispatcher(reg, nil)

	r := d.Dispatch(context.Background(), "boom", nil)
	if !r.IsError {
		t.Fatalf("expected panic to surface as an error result")
	}
}

func TestPolicyGroupExpansion(t *testing.T) {
	p := NewPolicy([]string{"group:exec"}, nil)
	if !p.Allowed("execute_command") {
		t.Fatalf("expected execute_command allowed via group:exec")
	}
	if p.Allowed("add_file_watch") {
		t.Fatalf("expected add_file_watch denied (not in group:exec)")
	}
}
