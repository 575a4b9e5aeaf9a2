package loader

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/dshills/strata/nested"
)

// JSONLoader loads settings from JSON documents. The document is walked in
// order, so the resulting tree preserves document key order. Top-level and
// nested keys may be flat dotted paths; they merge identically to nested
// objects.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a new JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads settings from the configured path.
func (l *JSONLoader) Load() (*nested.Tree, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads settings from a specific path.
func (l *JSONLoader) LoadFrom(path string) (*nested.Tree, error) {
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
func (l *JSONLoader) LoadFromReader(r io.Reader) (*nested.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return l.parse("<reader>", data)
}

// parse parses JSON data into a tree.
func (l *JSONLoader) parse(source string, data []byte) (*nested.Tree, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: "top-level value must be an object"}
	}

	t := nested.New()
	if err := mergeObject(t, root); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return t, nil
}

// mergeObject sets each member of obj on t in document order.
func mergeObject(t *nested.Tree, obj gjson.Result) error {
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		var v any
		v, err = jsonValue(value)
		if err != nil {
			return false
		}
		err = t.Set(key.String(), v)
		return err == nil
	})
	return err
}

// jsonValue converts a gjson result to a tree-native value.
func jsonValue(r gjson.Result) (any, error) {
	switch {
	case r.IsObject():
		sub := nested.New()
		if err := mergeObject(sub, r); err != nil {
			return nil, err
		}
		return sub, nil
	case r.IsArray():
		items := r.Array()
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := jsonValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return r.Value(), nil
	}
}
