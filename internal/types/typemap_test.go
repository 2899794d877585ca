package types

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typemap.yaml")
	content := "PSGalleryModule: gomodule\ntask: Command\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := LoadMap(path)
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"psgallerymodule", "gomodule"},
		{"PSGalleryModule", "gomodule"}, // aliases match case-insensitively
		{"task", "command"},             // handler names are normalized too
		{"filesystem", "filesystem"},    // unmapped names pass through
	}
	for _, tt := range tests {
		if got := m.Apply(tt.in); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadMapEmptyPath(t *testing.T) {
	m, err := LoadMap("")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got := m.Apply("anything"); got != "anything" {
		t.Errorf("Apply = %q", got)
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := LoadMap(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMapInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typemap.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadMap(path); err == nil {
		t.Fatal("expected error for non-mapping type map")
	}
}
