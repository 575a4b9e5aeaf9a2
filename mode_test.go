package strata

import (
	"testing"

	"github.com/dshills/strata/nested"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"string", "x", KindScalar},
		{"number", 1.5, KindScalar},
		{"bool", true, KindScalar},
		{"nil", nil, KindScalar},
		{"list", []any{1}, KindList},
		{"tree", nested.New(), KindMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.v); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestManager_ModeFor(t *testing.T) {
	m := NewManager()

	// Kind defaults: maps merge, lists and scalars override.
	if got := m.ModeFor("any", KindMap); got != ModeMerge {
		t.Errorf("map default = %v, want merge", got)
	}
	if got := m.ModeFor("any", KindList); got != ModeOverride {
		t.Errorf("list default = %v, want override", got)
	}
	if got := m.ModeFor("any", KindScalar); got != ModeOverride {
		t.Errorf("scalar default = %v, want override", got)
	}

	// Per-key override beats the kind default.
	m.SetMode("l", ModeMerge)
	if got := m.ModeFor("l", KindList); got != ModeMerge {
		t.Errorf("per-key mode = %v, want merge", got)
	}
	m.ClearMode("l")
	if got := m.ModeFor("l", KindList); got != ModeOverride {
		t.Errorf("mode after ClearMode = %v, want override", got)
	}
}

func TestManager_WithKindMode(t *testing.T) {
	m := NewManager(WithKindMode(KindList, ModeMerge))

	if got := m.ModeFor("any", KindList); got != ModeMerge {
		t.Errorf("configured list default = %v, want merge", got)
	}
}

func TestMode_String(t *testing.T) {
	if ModeOverride.String() != "override" || ModeMerge.String() != "merge" {
		t.Error("mode names should be override and merge")
	}
	if Mode(9).String() != "unknown" {
		t.Error("unknown modes should stringify as unknown")
	}
}

func TestKind_String(t *testing.T) {
	if KindScalar.String() != "scalar" || KindList.String() != "list" || KindMap.String() != "map" {
		t.Error("kind names should be scalar, list and map")
	}
}
