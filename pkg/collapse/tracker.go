// Package collapse tracks which folders the user has collapsed. It is
// independent of selection: nothing here reads or writes selection state.
package collapse

import (
	"sync"

	"github.com/vanderheijden86/treepick/pkg/model"
)

// Map is a folder node id -> collapsed map. Absent ids are expanded.
type Map map[string]bool

// Tracker holds the current collapse map. Writes copy the map and swap it in.
type Tracker struct {
	mu      sync.RWMutex
	current Map
}

// NewTracker returns a tracker with every folder expanded.
func NewTracker() *Tracker {
	return &Tracker{current: Map{}}
}

// Snapshot returns the current map. Callers must treat it as read-only.
func (t *Tracker) Snapshot() Map {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// IsCollapsed reports whether the folder with id is collapsed.
func (t *Tracker) IsCollapsed(id string) bool {
	return t.Snapshot()[id]
}

// Toggle flips the collapsed flag of a folder. Items are ignored.
func (t *Tracker) Toggle(node *model.Node) {
	if !node.IsFolder() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make(Map, len(t.current)+1)
	for id, c := range t.current {
		next[id] = c
	}
	next[node.ID] = !next[node.ID]
	t.current = next
}

// Restore swaps in a previously saved map. Non-folder ids are dropped.
func (t *Tracker) Restore(m Map) {
	next := make(Map, len(m))
	for id, c := range m {
		if model.IsFolderNodeID(id) {
			next[id] = c
		}
	}
	t.mu.Lock()
	t.current = next
	t.mu.Unlock()
}

// Annotate sets Collapsed on every folder of the forest.
func (t *Tracker) Annotate(roots []*model.Node) {
	Annotate(roots, t.Snapshot())
}

// Annotate sets Collapsed on every folder of the forest from m.
func Annotate(roots []*model.Node, m Map) {
	for _, n := range roots {
		if !n.IsFolder() {
			continue
		}
		n.Collapsed = m[n.ID]
		Annotate(n.Children, m)
	}
}
