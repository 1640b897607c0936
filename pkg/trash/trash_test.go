package trash

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newTestDir(fs afero.Fs) *Dir {
	d := New(fs, "/home/u/.local/share/Trash")
	d.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }
	return d
}

func TestDir_Trash(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/my file.txt", []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	d := newTestDir(fs)
	if err := d.Trash("/data/my file.txt"); err != nil {
		t.Fatalf("Trash() error = %v", err)
	}

	if exists, _ := afero.Exists(fs, "/data/my file.txt"); exists {
		t.Error("Expected source file to be gone")
	}

	content, err := afero.ReadFile(fs, filepath.Join(d.Root(), "files", "my file.txt"))
	if err != nil {
		t.Fatalf("Expected trashed file: %v", err)
	}
	if string(content) != "content" {
		t.Errorf("Unexpected trashed content %q", content)
	}

	info, err := afero.ReadFile(fs, filepath.Join(d.Root(), "info", "my file.txt.trashinfo"))
	if err != nil {
		t.Fatalf("Expected trash info: %v", err)
	}
	want := "[Trash Info]\nPath=/data/my%20file.txt\nDeletionDate=2026-10-19T08:30:00\n"
	if string(info) != want {
		t.Errorf("trash info = %q, want %q", info, want)
	}
}

func TestDir_Trash_NameCollision(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := newTestDir(fs)

	for _, dir := range []string{"/a", "/b"} {
		path := filepath.Join(dir, "report.pdf")
		if err := afero.WriteFile(fs, path, []byte(dir), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		if err := d.Trash(path); err != nil {
			t.Fatalf("Trash(%s) error = %v", path, err)
		}
	}

	files, err := afero.ReadDir(fs, filepath.Join(d.Root(), "files"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 trashed files, got %d", len(files))
	}

	infos, err := afero.ReadDir(fs, filepath.Join(d.Root(), "info"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 info files, got %d", len(infos))
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".pdf") {
			t.Errorf("Expected extension to be kept, got %s", f.Name())
		}
	}
}

func TestDir_Trash_MissingPath(t *testing.T) {
	d := newTestDir(afero.NewMemMapFs())
	if err := d.Trash("/does/not/exist"); err != nil {
		t.Errorf("Expected nil for missing path, got %v", err)
	}
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	root, err := DefaultRoot()
	if err != nil {
		t.Fatalf("DefaultRoot() error = %v", err)
	}
	if root != "/xdg/Trash" {
		t.Errorf("DefaultRoot() = %s", root)
	}
}
