// Package strata is a layered, path-addressable settings store.
//
// Settings come from ordered sources arranged in four fixed tiers:
//
//	┌─────────────────────────────────────┐
//	│ runtime   (in-memory, set() writes) │ ← highest priority
//	├─────────────────────────────────────┤
//	│ user      (user settings files)     │
//	├─────────────────────────────────────┤
//	│ plugin    (plugin settings files)   │
//	├─────────────────────────────────────┤
//	│ default   (shipped defaults)        │ ← lowest priority
//	└─────────────────────────────────────┘
//
// A Manager merges all tiers into one logical view addressed by dotted
// paths such as "chart.dimensions.width". Lookups scan sources from the
// lowest tier upward and combine the values they find: scalars and lists
// default to override (highest tier wins) while maps default to a deep
// merge, and both defaults can be changed per key with SetMode.
//
// File sources are JSON, TOML, YAML, or Lua scripts returning a table,
// selected by extension. Runtime writes via Manager.Set live only in
// memory; strata never writes settings files back to disk.
//
// Basic usage:
//
//	m := strata.NewManager()
//	if _, err := m.AddSource("defaults.json", strata.TierDefault); err != nil {
//		return err
//	}
//	if _, err := m.AddSource("user.toml", strata.TierUser); err != nil {
//		return err
//	}
//	dpi := m.GetInt("chart.dpi", 96)
//	m.Set("chart.dpi", 300) // runtime override
//
// The Manager is not internally synchronized. Concurrent reads are safe
// when nothing is writing; callers that share a Manager across goroutines
// must provide their own mutual exclusion around mutation and reload.
package strata
