package strata

import (
	"fmt"

	"github.com/dshills/strata/loader"
	"github.com/dshills/strata/nested"
)

// Source is one settings origin: a file-backed tree or the in-memory
// runtime layer. A Source never writes back to its origin file.
type Source struct {
	path      string
	format    string
	namespace string
	tree      *nested.Tree
}

// NewSource creates an empty in-memory source whose tree splits paths
// on sep.
func NewSource(sep string) *Source {
	return &Source{tree: nested.NewWithSeparator(sep)}
}

// Path returns the backing file path, or "" for an in-memory source.
func (s *Source) Path() string { return s.path }

// Format returns the format tag of the last loaded file ("json",
// "toml", "yaml" or "lua"), or "" before any load.
func (s *Source) Format() string { return s.format }

// Empty reports whether the source holds no settings.
func (s *Source) Empty() bool { return s.tree.Len() == 0 }

// Load parses the file at path and deep-merges its settings into the
// source, recording the path. A missing file clears the recorded path
// and leaves the tree untouched; that is not an error.
func (s *Source) Load(path string) error {
	parsed, err := loader.ForPath(path).Load()
	if err != nil {
		return err
	}
	if parsed == nil {
		s.path = ""
		return nil
	}
	if s.namespace != "" {
		parsed, err = nested.Reparent(s.namespace, parsed)
		if err != nil {
			return err
		}
	}
	if err := s.tree.Update(parsed); err != nil {
		return err
	}
	s.path = path
	s.format = loader.Format(path)
	return nil
}

// Reload clears the tree and loads the recorded path again. A source
// with no recorded path is left as-is.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	path := s.path
	s.tree.Clear()
	return s.Load(path)
}

// Lookup returns the value at path, failing with ErrNotFound when the
// path does not resolve.
func (s *Source) Lookup(path string) (any, error) {
	return s.tree.Get(path)
}

// Get returns the value at path, or def when the lookup fails.
func (s *Source) Get(path string, def any) any {
	return s.tree.GetDefault(path, def)
}

// Set writes value at path. Writing through an existing scalar fails
// with ErrStructureConflict.
func (s *Source) Set(path string, value any) error {
	return s.tree.Set(path, value)
}

// Pop removes and returns the value at path.
func (s *Source) Pop(path string) (any, error) {
	return s.tree.Pop(path)
}

// ReparentUnder re-roots the whole tree under a single new top-level
// key, changing the effective path of every existing leaf. Intended for
// use once, at source-add time, before lookups begin. Reloads reapply
// the namespace.
func (s *Source) ReparentUnder(key string) error {
	nt, err := nested.Reparent(key, s.tree)
	if err != nil {
		return fmt.Errorf("reparenting source: %w", err)
	}
	s.tree = nt
	s.namespace = key
	return nil
}

// Snapshot returns a deep, independent copy of the source's tree.
// Mutating the snapshot never affects the source.
func (s *Source) Snapshot() *nested.Tree {
	return s.tree.Clone()
}

// Reset clears the tree and forgets the recorded path.
func (s *Source) Reset() {
	s.tree.Clear()
	s.path = ""
	s.format = ""
}
