package loader

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/dshills/strata/nested"
)

// YAMLLoader loads settings from YAML files.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoader creates a new YAML loader for the given path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads settings from the configured path.
func (l *YAMLLoader) Load() (*nested.Tree, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads settings from a specific path.
func (l *YAMLLoader) LoadFrom(path string) (*nested.Tree, error) {
	data, ok, err := readFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	if !ok {
		return nil, nil
	}
	return l.parse(path, data)
}

// LoadFromReader reads settings from an io.Reader.
func (l *YAMLLoader) LoadFromReader(r io.Reader) (*nested.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return l.parse("<reader>", data)
}

// parse parses YAML data into a tree.
func (l *YAMLLoader) parse(source string, data []byte) (*nested.Tree, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}

	t, err := nested.FromMap(doc, nested.DefaultSeparator)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return t, nil
}
