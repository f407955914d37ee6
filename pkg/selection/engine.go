// Package selection owns the authoritative per-item selection map and derives
// tri-state selection for folders by folding over their children.
//
// The map is never mutated in place. Every write builds a new map and swaps
// it in, so a reader holding a Snapshot always sees a consistent state.
package selection

import (
	"sort"
	"strconv"
	"sync"

	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
)

// Map is an item node id -> selection map. Only model.Selected and
// model.Unselected are ever stored; folder ids never appear as keys.
type Map map[string]model.Selection

// Get returns the selection for id, defaulting to Unselected.
func (m Map) Get(id string) model.Selection {
	if s, ok := m[id]; ok {
		return s
	}
	return model.Unselected
}

// Engine holds the current selection map.
type Engine struct {
	mu      sync.RWMutex
	current Map
}

// NewEngine returns an engine with nothing selected.
func NewEngine() *Engine {
	return &Engine{current: Map{}}
}

// Snapshot returns the current map. Callers must treat it as read-only.
func (e *Engine) Snapshot() Map {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Compute returns the selection state of node under the current map.
func (e *Engine) Compute(node *model.Node) model.Selection {
	return Compute(node, e.Snapshot())
}

// Annotate sets Selection on every node of the forest under the current map.
func (e *Engine) Annotate(roots []*model.Node) {
	Annotate(roots, e.Snapshot())
}

// Toggle flips node and, for folders, every descendant item. A node that is
// Unselected becomes Selected; Selected and Indeterminate nodes become
// Unselected. All writes land in a single new map.
func (e *Engine) Toggle(node *model.Node) {
	if node == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	target := model.Unselected
	if Compute(node, e.current) == model.Unselected {
		target = model.Selected
	}

	next := make(Map, len(e.current)+1)
	for id, s := range e.current {
		next[id] = s
	}
	setDescendants(node, target, next)
	e.current = next
}

// Clear deselects everything.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.current = Map{}
	e.mu.Unlock()
}

// SelectedIDs returns the ids of selected items in ascending numeric order.
func (e *Engine) SelectedIDs() []string {
	return SelectedIDs(e.Snapshot())
}

// Compute folds the selection of node bottom-up over m.
func Compute(node *model.Node, m Map) model.Selection {
	defer metrics.Timer(metrics.SelectionFold)()
	return compute(node, m)
}

func compute(node *model.Node, m Map) model.Selection {
	if node == nil {
		return model.Unselected
	}
	if node.Kind == model.KindItem {
		return m.Get(node.ID)
	}
	if len(node.Children) == 0 {
		return model.Unselected
	}
	allSelected, allUnselected := true, true
	for _, child := range node.Children {
		switch compute(child, m) {
		case model.Selected:
			allUnselected = false
		case model.Unselected:
			allSelected = false
		default:
			allSelected, allUnselected = false, false
		}
	}
	switch {
	case allSelected:
		return model.Selected
	case allUnselected:
		return model.Unselected
	default:
		return model.Indeterminate
	}
}

// Annotate sets Selection on every node of the forest in one post-order pass.
func Annotate(roots []*model.Node, m Map) {
	defer metrics.Timer(metrics.SelectionFold)()
	for _, root := range roots {
		annotate(root, m)
	}
}

func annotate(node *model.Node, m Map) model.Selection {
	if node.Kind == model.KindItem {
		node.Selection = m.Get(node.ID)
		return node.Selection
	}
	if len(node.Children) == 0 {
		node.Selection = model.Unselected
		return node.Selection
	}
	allSelected, allUnselected := true, true
	for _, child := range node.Children {
		switch annotate(child, m) {
		case model.Selected:
			allUnselected = false
		case model.Unselected:
			allSelected = false
		default:
			allSelected, allUnselected = false, false
		}
	}
	switch {
	case allSelected:
		node.Selection = model.Selected
	case allUnselected:
		node.Selection = model.Unselected
	default:
		node.Selection = model.Indeterminate
	}
	return node.Selection
}

func setDescendants(node *model.Node, target model.Selection, m Map) {
	if node.Kind == model.KindItem {
		m[node.ID] = target
		return
	}
	for _, child := range node.Children {
		setDescendants(child, target, m)
	}
}

// SelectedIDs returns the keys of m whose value is Selected. Numeric ids sort
// ascending by value; ids that do not parse as integers sort after them,
// lexicographically.
func SelectedIDs(m Map) []string {
	ids := make([]string, 0, len(m))
	for id, s := range m {
		if s == model.Selected {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.ParseInt(ids[i], 10, 64)
		b, bErr := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			if a != b {
				return a < b
			}
			return ids[i] < ids[j]
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}
