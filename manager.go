package strata

import (
	"fmt"
	"log/slog"

	"github.com/dshills/strata/loader"
	"github.com/dshills/strata/nested"
	"github.com/dshills/strata/notify"
)

// Manager owns the four settings tiers and resolves lookups across them.
//
// The Manager is not internally synchronized: callers sharing one across
// goroutines must serialize mutation and reloads externally. Lookups
// never mutate state, so concurrent reads without writers are safe.
type Manager struct {
	sep      string
	autoload bool

	// File-backed tiers, indexed by Tier. The runtime tier lives apart
	// and never holds file sources.
	groups  [tierCount - 1][]*Source
	runtime *Source

	perKey map[string]Mode
	byKind map[Kind]Mode

	notifier *notify.Notifier
	log      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSeparator sets the path separator for every source tree.
func WithSeparator(sep string) Option {
	return func(m *Manager) {
		if sep != "" {
			m.sep = sep
		}
	}
}

// WithAutoload controls whether AddSource parses the file immediately.
// Autoload is on by default.
func WithAutoload(autoload bool) Option {
	return func(m *Manager) { m.autoload = autoload }
}

// WithKindMode sets the fallback combination mode for a value kind.
func WithKindMode(kind Kind, mode Mode) Option {
	return func(m *Manager) { m.byKind[kind] = mode }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a Manager with an empty runtime tier.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sep:      nested.DefaultSeparator,
		autoload: true,
		perKey:   make(map[string]Mode),
		byKind:   defaultModes(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.runtime = NewSource(m.sep)
	m.notifier = notify.New(m.sep)
	return m
}

// SourceOption configures a source as it is added.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	namespace string
}

// WithNamespace re-roots the source's settings under a single top-level
// key, so a file's leaves are addressable as "<key>.<path>".
func WithNamespace(key string) SourceOption {
	return func(c *sourceConfig) { c.namespace = key }
}

// AddSource registers the settings file at path in the given tier and
// returns its Source handle. The runtime tier never accepts file
// sources, and a nonexistent path is rejected; both fail with
// ErrInvalidSource. When autoload is on the file is parsed immediately,
// otherwise it waits for ReloadAll.
func (m *Manager) AddSource(path string, tier Tier, opts ...SourceOption) (*Source, error) {
	if !tier.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTier, tier)
	}
	if tier == TierRuntime {
		return nil, fmt.Errorf("%w: the runtime tier does not accept file sources", ErrInvalidSource)
	}
	if _, err := loader.DefaultFS().Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, path, err)
	}

	var cfg sourceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := NewSource(m.sep)
	if m.autoload {
		if err := s.Load(path); err != nil {
			return nil, err
		}
	} else {
		// Record the identity so a later ReloadAll parses the file.
		s.path = path
		s.format = loader.Format(path)
	}
	if cfg.namespace != "" {
		if err := s.ReparentUnder(cfg.namespace); err != nil {
			return nil, err
		}
	}

	m.groups[tier] = append(m.groups[tier], s)
	m.log.Debug("settings source added",
		"path", path, "tier", tier.String(), "autoload", m.autoload)
	return s, nil
}

// Set writes value at path into the runtime tier, the only way values
// enter the Manager outside of file loads. Runtime values live in
// memory only and are lost at process exit.
func (m *Manager) Set(path string, value any) error {
	old := m.Get(path, nil)
	if err := m.runtime.Set(path, value); err != nil {
		return err
	}
	m.notifier.NotifySet(path, old, m.Get(path, nil), TierRuntime.String())
	return nil
}

// Unset removes path from the runtime tier. Values from file sources
// are unaffected and become visible again.
func (m *Manager) Unset(path string) error {
	old := m.Get(path, nil)
	if _, err := m.runtime.Pop(path); err != nil {
		return err
	}
	m.notifier.NotifyDelete(path, old, TierRuntime.String())
	return nil
}

// Runtime returns the in-memory runtime source.
func (m *Manager) Runtime() *Source { return m.runtime }

// LoadEnv collects environment variables carrying prefix into the
// runtime tier, e.g. MYAPP_CHART_DPI=300 becomes chart.dpi.
func (m *Manager) LoadEnv(prefix string) error {
	t, err := loader.NewEnvLoader(prefix).Load()
	if err != nil {
		return err
	}
	if err := m.runtime.tree.Update(t); err != nil {
		return err
	}
	m.log.Debug("environment settings loaded", "prefix", prefix, "count", len(t.Flatten()))
	m.notifier.NotifyReload("env:" + prefix)
	return nil
}

// ReloadAll reloads every file source in ascending tier order. The
// runtime tier has no backing files and is left as-is.
func (m *Manager) ReloadAll() error {
	for _, tier := range tierOrder[:tierCount-1] {
		for _, s := range m.groups[tier] {
			if err := s.Reload(); err != nil {
				return fmt.Errorf("reloading %s: %w", s.Path(), err)
			}
			m.notifier.NotifyReload(s.Path())
		}
	}
	m.log.Debug("sources reloaded")
	return nil
}

// ResetAll discards every source in every tier, including the runtime
// tier, losing all file associations. Sources must be re-added.
func (m *Manager) ResetAll() {
	for i := range m.groups {
		m.groups[i] = nil
	}
	m.runtime = NewSource(m.sep)
	m.notifier.NotifyReload("reset")
}

// SetAutoload toggles immediate parsing of added sources. Turning it on
// triggers a reload of every source so far.
func (m *Manager) SetAutoload(autoload bool) error {
	m.autoload = autoload
	if autoload {
		return m.ReloadAll()
	}
	return nil
}

// Sources returns every source in ascending tier order, runtime last,
// or descending with runtime first when highestFirst is set. Each call
// builds a fresh snapshot slice; later structural changes to the
// Manager are not reflected in it.
func (m *Manager) Sources(highestFirst bool) []*Source {
	out, _ := m.scan(nil)
	if highestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// TierSources returns the sources of one tier in the order added.
func (m *Manager) TierSources(tier Tier) ([]*Source, error) {
	return m.scan(&tier)
}

// WhichTier reports the highest tier that defines path.
func (m *Manager) WhichTier(path string) (Tier, error) {
	for i := tierCount - 1; i >= 0; i-- {
		tier := tierOrder[i]
		srcs := m.tierList(tier)
		for j := len(srcs) - 1; j >= 0; j-- {
			if _, err := srcs[j].Lookup(path); err == nil {
				return tier, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// SetMode sets the combination mode for one settings path, overriding
// the kind-based defaults.
func (m *Manager) SetMode(path string, mode Mode) {
	m.perKey[path] = mode
}

// ClearMode removes the per-key mode for path.
func (m *Manager) ClearMode(path string) {
	delete(m.perKey, path)
}

// ModeFor returns the effective combination mode for path given the
// shape of the collected values.
func (m *Manager) ModeFor(path string, kind Kind) Mode {
	if mode, ok := m.perKey[path]; ok {
		return mode
	}
	return m.byKind[kind]
}

// Subscribe registers an observer for every settings change.
func (m *Manager) Subscribe(observer notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (m *Manager) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return m.notifier.SubscribePath(path, observer)
}

// tierList returns the live source list for a tier.
func (m *Manager) tierList(tier Tier) []*Source {
	if tier == TierRuntime {
		return []*Source{m.runtime}
	}
	return m.groups[tier]
}

// scan returns the sources to consider for a lookup in ascending tier
// order, optionally restricted to one tier.
func (m *Manager) scan(filter *Tier) ([]*Source, error) {
	if filter != nil {
		if !filter.valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTier, *filter)
		}
		return append([]*Source(nil), m.tierList(*filter)...), nil
	}
	var out []*Source
	for _, tier := range tierOrder {
		out = append(out, m.tierList(tier)...)
	}
	return out, nil
}
