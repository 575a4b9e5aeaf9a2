package strata

import "github.com/dshills/strata/nested"

// Mode is the combination policy applied when multiple sources define the
// same key.
type Mode uint8

const (
	// ModeOverride keeps only the highest-priority value.
	ModeOverride Mode = iota

	// ModeMerge combines values: maps deep-merge, lists concatenate in
	// ascending priority order, and scalars collect into a list.
	ModeMerge
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOverride:
		return "override"
	case ModeMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// Kind tags the shape of a settings value for mode selection.
type Kind uint8

const (
	// KindScalar covers strings, numbers, booleans and nil.
	KindScalar Kind = iota

	// KindList covers []any values.
	KindList

	// KindMap covers nested trees.
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// KindOf returns the shape tag for a settings value.
func KindOf(v any) Kind {
	switch v.(type) {
	case *nested.Tree:
		return KindMap
	case []any:
		return KindList
	default:
		return KindScalar
	}
}

// defaultModes holds the fallback mode per value kind: maps merge, lists
// and scalars override.
func defaultModes() map[Kind]Mode {
	return map[Kind]Mode{
		KindMap:    ModeMerge,
		KindList:   ModeOverride,
		KindScalar: ModeOverride,
	}
}
