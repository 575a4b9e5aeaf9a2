package loader

import (
	"reflect"
	"testing"
)

func TestLuaLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/settings.lua", `
return {
	dpi = 150,
	dimensions = { width = 640, height = 480 },
	colors = { "red", "green", "blue" },
	ratio = 1.5,
	enabled = true,
}
`)

	loader := NewLuaLoaderWithFS(memfs, "/settings.lua")
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
	if got := tree.GetDefault("ratio", nil); got != 1.5 {
		t.Errorf("ratio = %v, want 1.5", got)
	}
	if got := tree.GetDefault("enabled", nil); got != true {
		t.Errorf("enabled = %v, want true", got)
	}
	want := []any{"red", "green", "blue"}
	if got := tree.GetDefault("colors", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("colors = %v, want %v", got, want)
	}
}

func TestLuaLoader_ScriptMustReturnTable(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.lua", `return 42`)

	_, err := NewLuaLoaderWithFS(memfs, "/bad.lua").Load()
	if err == nil {
		t.Fatal("expected error for a script that does not return a table")
	}
}

func TestLuaLoader_SyntaxError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/broken.lua", `return {`)

	_, err := NewLuaLoaderWithFS(memfs, "/broken.lua").Load()
	if err == nil {
		t.Fatal("expected error for invalid Lua")
	}
	var perr *ParseError
	if !asParseError(err, &perr) {
		t.Errorf("error = %T, want *ParseError", err)
	}
}

func TestLuaLoader_LoadNonExistent(t *testing.T) {
	loader := NewLuaLoaderWithFS(NewMemFS(), "/nonexistent.lua")

	tree, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if tree != nil {
		t.Error("expected nil tree for non-existent file")
	}
}
