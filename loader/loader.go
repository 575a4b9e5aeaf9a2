// Package loader reads settings documents and produces nested trees.
//
// The loader package parses settings files in their on-disk formats (JSON,
// TOML, YAML, and Lua scripts returning a table) and can collect prefixed
// environment variables into a tree. A missing file is never an error:
// loaders return a nil tree so callers can treat absence as "no settings".
package loader

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/strata/nested"
)

// Loader is the interface for settings loaders.
type Loader interface {
	// Load reads the source and returns its settings tree.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (*nested.Tree, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads settings from a specific path.
	LoadFrom(path string) (*nested.Tree, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads settings from a reader.
	LoadFromReader(r io.Reader) (*nested.Tree, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format returns the format tag for a settings file path. Unrecognized
// extensions are treated as JSON, the primary format.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".lua":
		return "lua"
	default:
		return "json"
	}
}

// ForPath returns a loader for the file at path, selected by extension.
func ForPath(path string) FileLoader {
	switch Format(path) {
	case "toml":
		return NewTOMLLoader(path)
	case "yaml":
		return NewYAMLLoader(path)
	case "lua":
		return NewLuaLoader(path)
	default:
		return NewJSONLoader(path)
	}
}

// readFile reads path through fsys. A missing file yields ok=false with a
// nil error.
func readFile(fsys FileSystem, path string) ([]byte, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
