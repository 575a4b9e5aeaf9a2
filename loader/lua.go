package loader

import (
	"fmt"
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/strata/nested"
)

// LuaLoader loads settings from Lua scripts. The script is evaluated and
// must return a table, which becomes the settings tree. Tables with
// contiguous integer keys starting at 1 become lists.
type LuaLoader struct {
	fs   FileSystem
	path string
}

// NewLuaLoader creates a new Lua loader for the given path.
func NewLuaLoader(path string) *LuaLoader {
	return &LuaLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewLuaLoaderWithFS creates a Lua loader with a custom file system.
func NewLuaLoaderWithFS(fs FileSystem, path string) *LuaLoader {
	return &LuaLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads settings from the configured path.
func (l *LuaLoader) Load() (*nested.Tree, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads settings from a specific path.
func (l *LuaLoader) LoadFrom(path string) (*nested.Tree, error) {
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
func (l *LuaLoader) LoadFromReader(r io.Reader) (*nested.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return l.parse("<reader>", data)
}

// parse evaluates the script and converts the returned table into a tree.
func (l *LuaLoader) parse(source string, data []byte) (*nested.Tree, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(string(data)); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}

	ret := L.Get(-1)
	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Path:    source,
			Message: fmt.Sprintf("script must return a table, got %s", ret.Type()),
		}
	}

	doc, ok := luaValue(table, make(map[*lua.LTable]bool)).(map[string]any)
	if !ok {
		return nil, &ParseError{
			Path:    source,
			Message: "script must return a table with string keys",
		}
	}

	t, err := nested.FromMap(doc, nested.DefaultSeparator)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return t, nil
}

// luaValue converts a Lua value to a Go value. The visited set breaks
// circular table references.
func luaValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return luaTable(v, visited)
	default:
		return nil
	}
}

// luaTable converts a table to a slice (contiguous integer keys from 1)
// or a string-keyed map.
func luaTable(t *lua.LTable, visited map[*lua.LTable]bool) any {
	maxN := t.MaxN()
	if maxN > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == maxN {
			arr := make([]any, maxN)
			for i := 1; i <= maxN; i++ {
				arr[i-1] = luaValue(t.RawGetInt(i), visited)
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = luaValue(v, visited)
	})
	return m
}
