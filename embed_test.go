package dexterm

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestEmbeddedHighlights(t *testing.T) {
	// Verify that the embedded data FS carries the highlights table.
	data, err := fs.ReadFile(Data, "highlights.yaml")
	if err != nil {
		t.Fatalf("reading embedded highlights.yaml: %v", err)
	}
	if !strings.Contains(string(data), "pikachu") {
		t.Error("embedded highlights.yaml missing pikachu")
	}
}

func TestOverlayFS_Precedence(t *testing.T) {
	embedded := fstest.MapFS{
		"highlights.yaml": &fstest.MapFile{Data: []byte("embedded table")},
	}
	withLocal := t.TempDir()
	if err := os.WriteFile(filepath.Join(withLocal, "highlights.yaml"), []byte("local table"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		localDir string
		want     string
	}{
		{"no local dir", "", "embedded table"},
		{"local dir without the file", t.TempDir(), "embedded table"},
		{"missing local dir", filepath.Join(t.TempDir(), "gone"), "embedded table"},
		{"local file wins", withLocal, "local table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := fs.ReadFile(OverlayFS(tt.localDir, embedded), "highlights.yaml")
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %q, want %q", data, tt.want)
			}
		})
	}
}

func TestOverlayFS_NotFound(t *testing.T) {
	ofs := OverlayFS(t.TempDir(), fstest.MapFS{})

	if _, err := fs.ReadFile(ofs, "missing.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOverlayFS_RejectsInvalidPath(t *testing.T) {
	ofs := OverlayFS(t.TempDir(), fstest.MapFS{})

	for _, name := range []string{"../escape", "/absolute", "bad\\slash"} {
		if _, err := ofs.Open(name); err == nil {
			t.Errorf("Open(%q) should return error", name)
		}
	}
}
