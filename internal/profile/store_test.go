package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadUpdatesLastUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := New(path)

	if err := s.Save(Profile{Name: "web", WorkingDirectory: "/srv/web"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := s.Load("web")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.LastUsed.IsZero() {
		t.Fatal("expected LastUsed to be set on Load")
	}
}

func TestLoadMissingProfileErrors(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "profiles.json"))
	if _, err := s.Load("absent"); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestStorePersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := New(path)
	if err := s.Save(Profile{Name: "api", WorkingDirectory: "/srv/api"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := New(path)
	list := reloaded.List()
	if len(list) != 1 || list[0].Name != "api" {
		t.Fatalf("expected reloaded store to contain 1 profile named api, got %+v", list)
	}
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	s := New(path)
	if len(s.List()) != 0 {
		t.Fatal("expected empty store on corrupt disk file")
	}
}

func TestDeleteRemovesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := New(path)
	s.Save(Profile{Name: "temp"})
	if err := s.Delete("temp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("temp"); err == nil {
		t.Fatal("expected deleted profile to be gone")
	}
}
