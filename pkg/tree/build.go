// Package tree assembles flat folder/item entities into a parent-linked forest.
//
// The forest is derived data: it is rebuilt from scratch on every call and
// carries no identity between builds. Selection and collapse annotation are
// applied by their own packages on top of the returned nodes.
package tree

import (
	"github.com/vanderheijden86/treepick/pkg/debug"
	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
)

// Build returns the root nodes of the forest described by folders and items.
//
// Folders are indexed before items, and each parent's children keep the
// input order. A node whose parent is nil or does not resolve becomes a root
// (orphan promotion). A parent chain that loops back on itself is broken at
// the cycle member that appears first in the input, which is promoted to a
// root so every entity appears exactly once.
func Build(folders, items []model.Entity) []*model.Node {
	defer metrics.Timer(metrics.TreeBuild)()

	entities := make([]model.Entity, 0, len(folders)+len(items))
	entities = append(entities, folders...)
	entities = append(entities, items...)
	if len(entities) == 0 {
		return nil
	}

	// Pass 1: index every entity by id.
	nodes := make([]*model.Node, len(entities))
	index := make(map[string]int, len(entities))
	for i, e := range entities {
		node := &model.Node{
			ID:       e.ID,
			Title:    e.Title,
			Kind:     e.Kind,
			ParentID: e.ParentID,
		}
		if e.Kind == model.KindFolder {
			node.Children = []*model.Node{}
		}
		nodes[i] = node
		_, dup := index[e.ID]
		debug.LogIf(dup, "tree: duplicate node id %s, later entry wins lookups", e.ID)
		index[e.ID] = i
	}

	parents := resolveParents(entities, index)
	cut := cycleCuts(parents)

	// Pass 2: attach in input order.
	var roots []*model.Node
	for i, node := range nodes {
		p := parents[i]
		if p < 0 || cut[i] {
			roots = append(roots, node)
			continue
		}
		parent := nodes[p]
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// resolveParents maps each entity to the index of its parent, or -1 when the
// parent is absent or unknown.
func resolveParents(entities []model.Entity, index map[string]int) []int {
	parents := make([]int, len(entities))
	for i, e := range entities {
		parents[i] = -1
		if e.ParentID == nil {
			continue
		}
		if p, ok := index[*e.ParentID]; ok {
			parents[i] = p
		}
	}
	return parents
}

// cycleCuts walks the parent-pointer graph in input order and, for each cycle
// found, marks the member with the lowest input index. Each node has at most
// one parent, so a connected component holds at most one cycle and a single
// cut per cycle is enough to make every chain terminate.
func cycleCuts(parents []int) map[int]bool {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]int, len(parents))
	var cut map[int]bool

	for start := range parents {
		if state[start] != unvisited {
			continue
		}
		var path []int
		n := start
		for n >= 0 && state[n] == unvisited {
			state[n] = onPath
			path = append(path, n)
			n = parents[n]
		}
		if n >= 0 && state[n] == onPath {
			// n is on the current path: the cycle is path[pos(n):].
			lowest := n
			for k := len(path) - 1; k >= 0 && path[k] != n; k-- {
				if path[k] < lowest {
					lowest = path[k]
				}
			}
			if cut == nil {
				cut = make(map[int]bool)
			}
			cut[lowest] = true
			debug.Log("tree: parent cycle broken at input index %d", lowest)
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return cut
}
