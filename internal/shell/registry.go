// Package shell hosts the dashboard widget registry. Widgets register under a
// stable identifier and the launcher mounts them by lookup, so adding a widget
// never touches the launcher.
package shell

import (
	"fmt"
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Widget is a mountable dashboard application.
type Widget struct {
	// ID is the stable identifier used for lookup and window management.
	ID string
	// Title is the human-readable name shown in the shell chrome.
	Title string
	// New builds a fresh model each time the widget is opened.
	New func() tea.Model
}

// Registry maps widget identifiers to their constructors.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]Widget
}

func NewRegistry() *Registry {
	return &Registry{widgets: make(map[string]Widget)}
}

// Register adds a widget. Duplicate identifiers are rejected so two widgets
// can never shadow each other.
func (r *Registry) Register(w Widget) error {
	if w.ID == "" {
		return fmt.Errorf("widget id must not be empty")
	}
	if w.New == nil {
		return fmt.Errorf("widget %q has no constructor", w.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.widgets[w.ID]; ok {
		return fmt.Errorf("widget %q already registered", w.ID)
	}
	r.widgets[w.ID] = w
	return nil
}

// Lookup returns the widget registered under id.
func (r *Registry) Lookup(id string) (Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

// Remove unregisters a widget. Unknown ids are a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.widgets, id)
}

// IDs returns all registered identifiers, sorted for stable iteration.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.widgets))
	for id := range r.widgets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
