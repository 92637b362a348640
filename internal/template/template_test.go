package template

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractVariablesDistinctSorted(t *testing.T) {
	got := ExtractVariables("deploy {{env}} --tag {{tag}} --env-again {{env}}")
	want := []string{"env", "tag"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractVariables = %v, want %v", got, want)
	}
}

func TestExtractVariablesNoPlaceholders(t *testing.T) {
	if got := ExtractVariables("ls -la"); len(got) != 0 {
		t.Fatalf("expected no variables, got %v", got)
	}
}

func TestRenderSubstitutesVerbatim(t *testing.T) {
	tpl := Template{Command: "deploy {{env}} --tag {{tag}}", Variables: []string{"env", "tag"}}
	out, err := tpl.Render(map[string]string{"env": "staging", "tag": "v1.2.3"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "deploy staging --tag v1.2.3" {
		t.Fatalf("Render = %q", out)
	}
}

func TestRenderRejectsMissingVariable(t *testing.T) {
	tpl := Template{Command: "deploy {{env}}", Variables: []string{"env"}}
	if _, err := tpl.Render(map[string]string{}); err == nil {
		t.Fatal("expected missing-variable error")
	}
}

func TestSaveComputesVariableSet(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "templates.json"))
	tpl, err := s.Save("deploy", "deploy {{env}} --tag {{tag}}", "deploy a service", "ops")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := []string{"env", "tag"}
	if !reflect.DeepEqual(tpl.Variables, want) {
		t.Fatalf("Variables = %v, want %v", tpl.Variables, want)
	}
}

func TestListFiltersByCategory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "templates.json"))
	s.Save("a", "echo a", "", "ops")
	s.Save("b", "echo b", "", "dev")

	ops := s.List("ops")
	if len(ops) != 1 || ops[0].Name != "a" {
		t.Fatalf("expected only category=ops template, got %+v", ops)
	}
	all := s.List("")
	if len(all) != 2 {
		t.Fatalf("expected List(\"\") to return all templates, got %d", len(all))
	}
}

func TestTemplateRoundTripsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	s := New(path)
	s.Save("x", "echo {{name}}", "", "")

	reloaded := New(path)
	tpl, err := reloaded.Get("x")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if tpl.Command != "echo {{name}}" {
		t.Fatalf("Command = %q", tpl.Command)
	}
}
