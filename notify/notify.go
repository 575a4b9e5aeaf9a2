// Package notify provides change notification for settings updates.
//
// The notify package implements an observer pattern that allows components
// to subscribe to settings changes and receive callbacks when runtime
// values are modified or file-backed sources are reloaded.
package notify

import (
	"sync"
)

// ChangeType represents the type of settings change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates a source was reloaded from disk.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a settings change event.
type Change struct {
	// Path is the separator-joined path to the changed setting.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous effective value (may be nil).
	OldValue any

	// NewValue is the new effective value (may be nil for deletes).
	NewValue any

	// Origin identifies where the change came from, typically a tier
	// name or a source path.
	Origin string
}

// Observer is called when settings changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	path     string
	observer Observer
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages settings change subscriptions. Delivery is
// synchronous: observers run on the goroutine that made the change.
type Notifier struct {
	mu sync.RWMutex

	// Global observers that receive all changes
	globalObservers map[uint64]Observer

	// Path-specific observers
	pathObservers map[string]map[uint64]Observer

	// Next subscription ID
	nextID uint64

	// Separator used for parent-path matching
	sep string
}

// New creates a new Notifier using sep for parent-path matching.
func New(sep string) *Notifier {
	return &Notifier{
		globalObservers: make(map[uint64]Observer),
		pathObservers:   make(map[string]map[uint64]Observer),
		sep:             sep,
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{
		id:       id,
		observer: observer,
		notifier: n,
	}
}

// SubscribePath registers an observer for changes to a specific path.
// The observer is called for exact matches and for descendant paths.
// For example, subscribing to "chart" receives changes to "chart.dpi".
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.pathObservers[path] == nil {
		n.pathObservers[path] = make(map[uint64]Observer)
	}
	n.pathObservers[path][id] = observer

	return &Subscription{
		id:       id,
		path:     path,
		observer: observer,
		notifier: n,
	}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()

	var observers []Observer

	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}

	if change.Path != "" {
		if pathObs, ok := n.pathObservers[change.Path]; ok {
			for _, obs := range pathObs {
				observers = append(observers, obs)
			}
		}

		// Ancestor subscriptions (e.g. "chart" matches "chart.dpi").
		for path, pathObs := range n.pathObservers {
			if isParentPath(path, change.Path, n.sep) {
				for _, obs := range pathObs {
					observers = append(observers, obs)
				}
			}
		}
	} else {
		// Reload events reach every path observer.
		for _, pathObs := range n.pathObservers {
			for _, obs := range pathObs {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, origin string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Origin:   origin,
	})
}

// NotifyDelete is a convenience method for delete changes.
func (n *Notifier) NotifyDelete(path string, oldValue any, origin string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeDelete,
		OldValue: oldValue,
		Origin:   origin,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(origin string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Origin: origin,
	})
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)

	for path, observers := range n.pathObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.pathObservers, path)
		}
	}
}

// isParentPath checks if parent is an ancestor path of child.
// e.g., "chart" is a parent of "chart.dpi".
func isParentPath(parent, child, sep string) bool {
	if len(parent) >= len(child) {
		return false
	}
	if parent == "" {
		return true
	}
	if len(child) < len(parent)+len(sep) {
		return false
	}
	return child[:len(parent)] == parent && child[len(parent):len(parent)+len(sep)] == sep
}
