package trash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSystem_Trash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.log")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var got []string
	s := &System{trash: func(paths ...string) error {
		got = append(got, paths...)
		return nil
	}}

	if err := s.Trash(path); err != nil {
		t.Fatalf("Trash() error = %v", err)
	}
	if len(got) != 1 || got[0] != path {
		t.Errorf("Expected %s to be sent to the system trash, got %v", path, got)
	}
}

func TestSystem_Trash_MissingPath(t *testing.T) {
	called := false
	s := &System{trash: func(...string) error {
		called = true
		return nil
	}}

	if err := s.Trash(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Errorf("Trash() error = %v", err)
	}
	if called {
		t.Error("Expected missing path to be skipped")
	}
}

func TestSystem_Trash_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cause := errors.New("trash unavailable")
	s := &System{trash: func(...string) error { return cause }}

	if err := s.Trash(path); !errors.Is(err, cause) {
		t.Errorf("Trash() error = %v, want %v", err, cause)
	}
}

func TestNewSystem(t *testing.T) {
	if NewSystem().trash == nil {
		t.Error("Expected system trash function to be set")
	}
}
