package strata

import (
	"errors"
	"fmt"

	"github.com/dshills/strata/nested"
)

// Resolve looks up path across every tier in ascending priority order
// and combines the values found according to the effective combination
// mode. It fails with ErrNotFound when no source defines the path. An
// empty path deep-merges every source's full tree and returns it.
//
// Returned containers are independent copies; mutating them never
// affects the underlying sources.
func (m *Manager) Resolve(path string) (any, error) {
	return m.resolve(path, nil)
}

// ResolveIn is Resolve restricted to the sources of one tier.
func (m *Manager) ResolveIn(path string, tier Tier) (any, error) {
	return m.resolve(path, &tier)
}

// Get returns the resolved value at path, or def when resolution fails
// for any reason. Callers that need to distinguish failures use Resolve.
func (m *Manager) Get(path string, def any) any {
	v, err := m.Resolve(path)
	if err != nil {
		return def
	}
	return v
}

// GetIn is Get restricted to the sources of one tier.
func (m *Manager) GetIn(path string, def any, tier Tier) any {
	v, err := m.ResolveIn(path, tier)
	if err != nil {
		return def
	}
	return v
}

// Merged returns the deep merge of every source's full tree, ascending
// tier order, highest priority last.
func (m *Manager) Merged() (*nested.Tree, error) {
	v, err := m.Resolve("")
	if err != nil {
		return nil, err
	}
	return v.(*nested.Tree), nil
}

func (m *Manager) resolve(path string, filter *Tier) (any, error) {
	srcs, err := m.scan(filter)
	if err != nil {
		return nil, err
	}

	if path == "" {
		acc := nested.NewWithSeparator(m.sep)
		for _, s := range srcs {
			if err := acc.Update(s.tree); err != nil {
				return nil, err
			}
		}
		return acc, nil
	}

	var values []any
	for _, s := range srcs {
		v, err := s.Lookup(path)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	kind := collectedKind(values)
	if m.ModeFor(path, kind) == ModeOverride {
		return nested.CloneValue(values[len(values)-1]), nil
	}

	switch kind {
	case KindMap:
		acc := nested.NewWithSeparator(m.sep)
		for _, v := range values {
			if err := acc.Update(v.(*nested.Tree)); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case KindList:
		// Concatenate in ascending priority order; non-list values
		// contribute a single element.
		var out []any
		for _, v := range values {
			if l, ok := v.([]any); ok {
				for _, e := range l {
					out = append(out, nested.CloneValue(e))
				}
				continue
			}
			out = append(out, nested.CloneValue(v))
		}
		return out, nil
	default:
		// Merging scalars exposes every source's value rather than
		// silently picking one.
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = nested.CloneValue(v)
		}
		return out, nil
	}
}

// collectedKind tags the shape of the collected values: all maps, any
// list, otherwise scalar.
func collectedKind(values []any) Kind {
	allMap := true
	anyList := false
	for _, v := range values {
		switch KindOf(v) {
		case KindMap:
		case KindList:
			allMap = false
			anyList = true
		default:
			allMap = false
		}
	}
	if allMap {
		return KindMap
	}
	if anyList {
		return KindList
	}
	return KindScalar
}
