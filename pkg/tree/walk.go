package tree

import "github.com/vanderheijden86/treepick/pkg/model"

// Walk visits every node in pre-order. Returning false from fn skips the
// node's children.
func Walk(roots []*model.Node, fn func(node *model.Node, depth int) bool) {
	var visit func(n *model.Node, depth int)
	visit = func(n *model.Node, depth int) {
		if n == nil {
			return
		}
		if !fn(n, depth) {
			return
		}
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	for _, root := range roots {
		visit(root, 0)
	}
}

// Find returns the node with the given id, or nil.
func Find(roots []*model.Node, id string) *model.Node {
	var found *model.Node
	Walk(roots, func(n *model.Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the total number of nodes in the forest.
func Count(roots []*model.Node) int {
	count := 0
	Walk(roots, func(*model.Node, int) bool {
		count++
		return true
	})
	return count
}

// Visible returns the nodes a viewer would show: pre-order, skipping the
// children of collapsed folders. Depths are returned alongside.
func Visible(roots []*model.Node) ([]*model.Node, []int) {
	var nodes []*model.Node
	var depths []int
	Walk(roots, func(n *model.Node, depth int) bool {
		nodes = append(nodes, n)
		depths = append(depths, depth)
		return !n.Collapsed
	})
	return nodes, depths
}
