// Package nested provides the ordered nested tree backing strata settings.
//
// A Tree maps key segments to values, where a value is a scalar (string,
// number, boolean, nil), a []any list, or another Tree. Composite keys use
// a configurable separator (default ".") and descend transparently through
// intermediate levels. Key insertion order is preserved and drives Flatten.
package nested

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSeparator is the path separator used unless overridden.
const DefaultSeparator = "."

// Entry is one flattened leaf of a Tree.
type Entry struct {
	// Path is the fully-qualified key, joined with the tree's separator.
	Path string

	// Value is the leaf value.
	Value any
}

// Tree is an ordered nested mapping addressable by separator-delimited paths.
type Tree struct {
	sep  string
	keys []string
	vals map[string]any
}

// New creates an empty tree with the default separator.
func New() *Tree {
	return NewWithSeparator(DefaultSeparator)
}

// NewWithSeparator creates an empty tree that splits paths on sep.
// An empty sep falls back to the default.
func NewWithSeparator(sep string) *Tree {
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Tree{sep: sep, vals: make(map[string]any)}
}

// FromMap builds a tree from a parsed document. Keys are applied in sorted
// order so construction is deterministic. Dotted keys and nested maps merge
// identically: {"a.b": 1} and {"a": {"b": 1}} produce the same tree.
func FromMap(m map[string]any, sep string) (*Tree, error) {
	t := NewWithSeparator(sep)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.Set(k, m[k]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Reparent returns a new tree with all of t living under a single new
// top-level key. The key must be one plain segment.
func Reparent(key string, t *Tree) (*Tree, error) {
	if key == "" || strings.Contains(key, t.sep) {
		return nil, fmt.Errorf("%w: %q is not a single segment", ErrInvalidPath, key)
	}
	nt := NewWithSeparator(t.sep)
	nt.put(key, t)
	return nt, nil
}

// Separator returns the tree's path separator.
func (t *Tree) Separator() string { return t.sep }

// Len returns the number of top-level keys.
func (t *Tree) Len() int { return len(t.keys) }

// Keys returns the top-level keys in insertion order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Has reports whether path resolves to a value.
func (t *Tree) Has(path string) bool {
	_, err := t.Get(path)
	return err == nil
}

// Get returns the value at path. It fails with ErrNotFound when any
// segment is absent or an intermediate segment is not a container.
func (t *Tree) Get(path string) (any, error) {
	segs, err := t.split(path)
	if err != nil {
		return nil, err
	}
	cur := t
	for i, seg := range segs {
		v, ok := cur.vals[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if i == len(segs)-1 {
			return v, nil
		}
		sub, ok := v.(*Tree)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		cur = sub
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// GetDefault returns the value at path, or def when the lookup fails.
func (t *Tree) GetDefault(path string, def any) any {
	v, err := t.Get(path)
	if err != nil {
		return def
	}
	return v
}

// Set writes value at path, auto-creating intermediate containers.
// Writing through an existing non-container fails with ErrStructureConflict.
// Map values are normalized into subtrees; containers are copied, so the
// tree never aliases caller-owned data.
func (t *Tree) Set(path string, value any) error {
	segs, err := t.split(path)
	if err != nil {
		return err
	}
	v, err := normalize(value, t.sep)
	if err != nil {
		return err
	}
	return t.set(segs, path, v)
}

func (t *Tree) set(segs []string, path string, value any) error {
	key := segs[0]
	if len(segs) == 1 {
		t.put(key, value)
		return nil
	}
	child, ok := t.vals[key]
	if !ok {
		sub := NewWithSeparator(t.sep)
		t.put(key, sub)
		child = sub
	}
	sub, ok := child.(*Tree)
	if !ok {
		return fmt.Errorf("%w: %s", ErrStructureConflict, path)
	}
	return sub.set(segs[1:], path, value)
}

// Pop removes and returns the leaf at path.
func (t *Tree) Pop(path string) (any, error) {
	segs, err := t.split(path)
	if err != nil {
		return nil, err
	}
	cur := t
	for _, seg := range segs[:len(segs)-1] {
		v, ok := cur.vals[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		sub, ok := v.(*Tree)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		cur = sub
	}
	leaf := segs[len(segs)-1]
	v, ok := cur.vals[leaf]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(cur.vals, leaf)
	for i, k := range cur.keys {
		if k == leaf {
			cur.keys = append(cur.keys[:i], cur.keys[i+1:]...)
			break
		}
	}
	return v, nil
}

// Update deep-merges src into t: every leaf of src lands at its own path,
// so sibling keys in t survive. Updating {a:{b:1}} with {a:{c:2}} yields
// {a:{b:1,c:2}}. Merging through an existing scalar fails with
// ErrStructureConflict. Incoming leaves are copied, never shared.
func (t *Tree) Update(src *Tree) error {
	if src == nil {
		return nil
	}
	return t.update(src, "")
}

func (t *Tree) update(src *Tree, prefix string) error {
	for _, k := range src.keys {
		sv := src.vals[k]
		p := k
		if prefix != "" {
			p = prefix + t.sep + k
		}
		sub, ok := sv.(*Tree)
		if !ok {
			t.put(k, cloneValue(sv))
			continue
		}
		if sub.Len() == 0 {
			// Empty subtrees carry no leaves.
			continue
		}
		child, ok := t.vals[k]
		if !ok {
			nt := NewWithSeparator(t.sep)
			t.put(k, nt)
			child = nt
		}
		ct, ok := child.(*Tree)
		if !ok {
			return fmt.Errorf("%w: %s", ErrStructureConflict, p)
		}
		if err := ct.update(sub, p); err != nil {
			return err
		}
	}
	return nil
}

// Flatten returns every leaf with its fully-qualified path, depth-first,
// preserving insertion order at each level. Reconstructing via repeated
// Set reproduces the tree.
func (t *Tree) Flatten() []Entry {
	var out []Entry
	t.flatten("", &out)
	return out
}

func (t *Tree) flatten(prefix string, out *[]Entry) {
	for _, k := range t.keys {
		p := k
		if prefix != "" {
			p = prefix + t.sep + k
		}
		if sub, ok := t.vals[k].(*Tree); ok {
			sub.flatten(p, out)
			continue
		}
		*out = append(*out, Entry{Path: p, Value: t.vals[k]})
	}
}

// Clone returns a deep, independent copy of the tree.
func (t *Tree) Clone() *Tree {
	nt := NewWithSeparator(t.sep)
	nt.keys = make([]string, len(t.keys))
	copy(nt.keys, t.keys)
	for k, v := range t.vals {
		nt.vals[k] = cloneValue(v)
	}
	return nt
}

// AsMap returns the tree as plain nested maps, deep-copied.
func (t *Tree) AsMap() map[string]any {
	m := make(map[string]any, len(t.keys))
	for k, v := range t.vals {
		m[k] = Plain(v)
	}
	return m
}

// Clear removes every key.
func (t *Tree) Clear() {
	t.keys = nil
	t.vals = make(map[string]any)
}

// Plain converts a settings value to plain Go data: trees become nested
// maps, lists are copied element-wise.
func Plain(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x.AsMap()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// CloneValue deep-copies a settings value, preserving its shape.
func CloneValue(v any) any { return cloneValue(v) }

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// normalize converts raw parsed values into tree-native form: nested maps
// become subtrees (dotted keys included), containers are copied.
func normalize(v any, sep string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		return FromMap(x, sep)
	case *Tree:
		return x.Clone(), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ne, err := normalize(e, sep)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	default:
		return v, nil
	}
}

func (t *Tree) split(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(path, t.sep)
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: %q contains an empty segment", ErrInvalidPath, path)
		}
	}
	return segs, nil
}

func (t *Tree) put(key string, value any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = value
}
