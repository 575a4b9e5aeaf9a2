package nested

import (
	"errors"
	"reflect"
	"testing"
)

func buildTree(t *testing.T) *Tree {
	t.Helper()
	tr := New()
	entries := map[string]any{
		"flat":              "testflat",
		"multi.level":       "testmultilevel",
		"multi.multi.level": "testmultimultilevel",
		"sub.dict.item":     "testsubdictitem",
	}
	for _, path := range []string{"flat", "multi.level", "multi.multi.level", "sub.dict.item"} {
		if err := tr.Set(path, entries[path]); err != nil {
			t.Fatalf("Set(%q) = %v", path, err)
		}
	}
	return tr
}

func TestTree_SetGet(t *testing.T) {
	tr := buildTree(t)

	tests := []struct {
		path string
		want any
	}{
		{"flat", "testflat"},
		{"multi.level", "testmultilevel"},
		{"multi.multi.level", "testmultimultilevel"},
		{"sub.dict.item", "testsubdictitem"},
	}
	for _, tt := range tests {
		got, err := tr.Get(tt.path)
		if err != nil {
			t.Errorf("Get(%q) error = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestTree_Get_IntermediateContainer(t *testing.T) {
	tr := buildTree(t)

	v, err := tr.Get("multi")
	if err != nil {
		t.Fatalf("Get(multi) error = %v", err)
	}
	sub, ok := v.(*Tree)
	if !ok {
		t.Fatalf("Get(multi) = %T, want *Tree", v)
	}
	if got := sub.GetDefault("level", nil); got != "testmultilevel" {
		t.Errorf("multi.level via subtree = %v, want testmultilevel", got)
	}
}

func TestTree_Get_NotFound(t *testing.T) {
	tr := buildTree(t)

	tests := []string{
		"nokey",
		"multi.nokey",
		"multi.multi.nokey",
		"flat.under", // descends through a scalar
	}
	for _, path := range tests {
		if _, err := tr.Get(path); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", path, err)
		}
	}
}

func TestTree_Get_InvalidPath(t *testing.T) {
	tr := New()

	for _, path := range []string{"", "a..b", ".a", "a."} {
		if _, err := tr.Get(path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Get(%q) error = %v, want ErrInvalidPath", path, err)
		}
	}
}

func TestTree_GetDefault(t *testing.T) {
	tr := buildTree(t)

	if got := tr.GetDefault("flat", "fallback"); got != "testflat" {
		t.Errorf("GetDefault(flat) = %v, want testflat", got)
	}
	if got := tr.GetDefault("nokey", "fallback"); got != "fallback" {
		t.Errorf("GetDefault(nokey) = %v, want fallback", got)
	}
	if got := tr.GetDefault("flat.under", 42); got != 42 {
		t.Errorf("GetDefault(flat.under) = %v, want 42", got)
	}
}

func TestTree_Set_StructureConflict(t *testing.T) {
	tr := New()
	if err := tr.Set("x", 5); err != nil {
		t.Fatalf("Set(x) = %v", err)
	}

	if err := tr.Set("x.y", 1); !errors.Is(err, ErrStructureConflict) {
		t.Errorf("Set(x.y) error = %v, want ErrStructureConflict", err)
	}
}

func TestTree_Set_OverrideSubtree(t *testing.T) {
	tr := buildTree(t)

	// Replacing a whole subtree at its exact node is allowed.
	if err := tr.Set("sub.dict", "override"); err != nil {
		t.Fatalf("Set(sub.dict) = %v", err)
	}
	if got := tr.GetDefault("sub.dict", nil); got != "override" {
		t.Errorf("sub.dict = %v, want override", got)
	}
}

func TestTree_Set_CopiesContainers(t *testing.T) {
	tr := New()
	list := []any{"a", "b"}
	if err := tr.Set("l", list); err != nil {
		t.Fatalf("Set(l) = %v", err)
	}

	list[0] = "mutated"
	got, _ := tr.Get("l")
	if got.([]any)[0] != "a" {
		t.Error("tree aliases a caller-owned slice")
	}
}

func TestTree_Pop(t *testing.T) {
	tr := buildTree(t)

	popped, err := tr.Pop("flat")
	if err != nil {
		t.Fatalf("Pop(flat) = %v", err)
	}
	if popped != "testflat" {
		t.Errorf("Pop(flat) = %v, want testflat", popped)
	}
	if tr.Has("flat") {
		t.Error("flat should be gone after Pop")
	}

	popped, err = tr.Pop("multi.multi")
	if err != nil {
		t.Fatalf("Pop(multi.multi) = %v", err)
	}
	sub, ok := popped.(*Tree)
	if !ok {
		t.Fatalf("Pop(multi.multi) = %T, want *Tree", popped)
	}
	if got := sub.GetDefault("level", nil); got != "testmultimultilevel" {
		t.Errorf("popped subtree level = %v", got)
	}

	if _, err := tr.Pop("nokey"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Pop(nokey) error = %v, want ErrNotFound", err)
	}
}

func TestTree_Update_DeepMerge(t *testing.T) {
	dst := New()
	if err := dst.Set("a.b", 1); err != nil {
		t.Fatal(err)
	}
	src := New()
	if err := src.Set("a.c", 2); err != nil {
		t.Fatal(err)
	}

	if err := dst.Update(src); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	want := map[string]any{"a": map[string]any{"b": 1, "c": 2}}
	if got := dst.AsMap(); !reflect.DeepEqual(got, want) {
		t.Errorf("Update result = %v, want %v", got, want)
	}
}

func TestTree_Update_StructureConflict(t *testing.T) {
	dst := New()
	if err := dst.Set("a.b", 1); err != nil {
		t.Fatal(err)
	}
	src := New()
	if err := src.Set("a.b.c", 2); err != nil {
		t.Fatal(err)
	}

	if err := dst.Update(src); !errors.Is(err, ErrStructureConflict) {
		t.Errorf("Update() error = %v, want ErrStructureConflict", err)
	}
}

func TestTree_Update_CopiesLeaves(t *testing.T) {
	src := New()
	if err := src.Set("l", []any{1, 2}); err != nil {
		t.Fatal(err)
	}
	dst := New()
	if err := dst.Update(src); err != nil {
		t.Fatal(err)
	}

	got, _ := dst.Get("l")
	got.([]any)[0] = 99
	orig, _ := src.Get("l")
	if orig.([]any)[0] != 1 {
		t.Error("Update shares list values between trees")
	}
}

func TestTree_Flatten_Order(t *testing.T) {
	tr := buildTree(t)

	got := tr.Flatten()
	want := []Entry{
		{Path: "flat", Value: "testflat"},
		{Path: "multi.level", Value: "testmultilevel"},
		{Path: "multi.multi.level", Value: "testmultimultilevel"},
		{Path: "sub.dict.item", Value: "testsubdictitem"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestTree_Flatten_Roundtrip(t *testing.T) {
	tr := buildTree(t)
	if err := tr.Set("list", []any{1, "two", true}); err != nil {
		t.Fatal(err)
	}

	rebuilt := New()
	for _, e := range tr.Flatten() {
		if err := rebuilt.Set(e.Path, e.Value); err != nil {
			t.Fatalf("Set(%q) = %v", e.Path, err)
		}
	}

	if !reflect.DeepEqual(rebuilt.AsMap(), tr.AsMap()) {
		t.Errorf("rebuilt tree differs: %v vs %v", rebuilt.AsMap(), tr.AsMap())
	}
}

func TestTree_FromMap(t *testing.T) {
	nestedDoc := map[string]any{
		"a": map[string]any{"b": 1},
	}
	flatDoc := map[string]any{
		"a.b": 1,
	}

	fromNested, err := FromMap(nestedDoc, DefaultSeparator)
	if err != nil {
		t.Fatalf("FromMap(nested) = %v", err)
	}
	fromFlat, err := FromMap(flatDoc, DefaultSeparator)
	if err != nil {
		t.Fatalf("FromMap(flat) = %v", err)
	}

	if !reflect.DeepEqual(fromNested.AsMap(), fromFlat.AsMap()) {
		t.Errorf("flat and nested documents should build the same tree: %v vs %v",
			fromFlat.AsMap(), fromNested.AsMap())
	}
}

func TestTree_FromMap_Conflict(t *testing.T) {
	doc := map[string]any{
		"a":   1,
		"a.b": 2,
	}
	if _, err := FromMap(doc, DefaultSeparator); !errors.Is(err, ErrStructureConflict) {
		t.Errorf("FromMap() error = %v, want ErrStructureConflict", err)
	}
}

func TestTree_Clone(t *testing.T) {
	tr := buildTree(t)
	cp := tr.Clone()

	if err := cp.Set("multi.level", "changed"); err != nil {
		t.Fatal(err)
	}
	if got := tr.GetDefault("multi.level", nil); got != "testmultilevel" {
		t.Errorf("mutating a clone changed the original: %v", got)
	}
}

func TestTree_Separator(t *testing.T) {
	tr := NewWithSeparator("/")
	if err := tr.Set("a/b/c", 1); err != nil {
		t.Fatalf("Set(a/b/c) = %v", err)
	}

	if got := tr.GetDefault("a/b/c", nil); got != 1 {
		t.Errorf("Get(a/b/c) = %v, want 1", got)
	}
	// A dot is just a normal key character here.
	if err := tr.Set("x.y", 2); err != nil {
		t.Fatalf("Set(x.y) = %v", err)
	}
	if got := tr.GetDefault("x.y", nil); got != 2 {
		t.Errorf("Get(x.y) = %v, want 2", got)
	}

	flat := tr.Flatten()
	if flat[0].Path != "a/b/c" {
		t.Errorf("Flatten path = %q, want a/b/c", flat[0].Path)
	}
}

func TestTree_Reparent(t *testing.T) {
	tr := buildTree(t)
	nt, err := Reparent("ns", tr)
	if err != nil {
		t.Fatalf("Reparent() = %v", err)
	}

	if got := nt.GetDefault("ns.multi.level", nil); got != "testmultilevel" {
		t.Errorf("ns.multi.level = %v, want testmultilevel", got)
	}
	if _, err := Reparent("bad.key", tr); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Reparent(bad.key) error = %v, want ErrInvalidPath", err)
	}
}

func TestTree_Keys(t *testing.T) {
	tr := buildTree(t)
	want := []string{"flat", "multi", "sub"}
	if got := tr.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}
