package loader

import (
	"testing"
)

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/settings.toml", `
dpi = 150

[dimensions]
width = 640
height = 480
`)

	loader := NewTOMLLoaderWithFS(memfs, "/settings.toml")
	tree, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := tree.GetDefault("dpi", nil); got != int64(150) {
		t.Errorf("dpi = %v (%T), want int64(150)", got, got)
	}
	if got := tree.GetDefault("dimensions.width", nil); got != int64(640) {
		t.Errorf("dimensions.width = %v, want 640", got)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml")

	tree, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if tree != nil {
		t.Error("expected nil tree for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", `
[dimensions
width = 640
`)

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	var perr *ParseError
	if !asParseError(err, &perr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if perr.Line == 0 {
		t.Error("expected the decode error position to be recorded")
	}
}
