package testutil

import (
	"strconv"

	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/tree"
)

// T is the subset of testing.TB the assertions need. Both *testing.T and
// *rapid.T satisfy it.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertNoDuplicateIDs verifies every node id in the forest is unique.
func AssertNoDuplicateIDs(t T, roots []*model.Node) {
	t.Helper()
	seen := make(map[string]bool)
	tree.Walk(roots, func(n *model.Node, _ int) bool {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
		return true
	})
}

// AssertNodeCount verifies the forest holds the expected number of nodes.
func AssertNodeCount(t T, roots []*model.Node, expected int) {
	t.Helper()
	if got := tree.Count(roots); got != expected {
		t.Errorf("expected %d nodes, got %d", expected, got)
	}
}

// AssertFoldConsistent verifies each annotated folder's selection agrees with
// the selections of its descendant items: Selected iff all are selected,
// Unselected iff none are (or there are none), Indeterminate otherwise.
func AssertFoldConsistent(t T, roots []*model.Node) {
	t.Helper()
	tree.Walk(roots, func(n *model.Node, _ int) bool {
		if !n.IsFolder() {
			if n.Selection == model.Indeterminate {
				t.Errorf("item %s is indeterminate", n.ID)
			}
			return true
		}
		selected, total := 0, 0
		var emptyFolder bool
		tree.Walk(n.Children, func(d *model.Node, _ int) bool {
			if d.IsItem() {
				total++
				if d.Selection == model.Selected {
					selected++
				}
			} else if len(d.Children) == 0 {
				emptyFolder = true
			}
			return true
		})
		want := model.Indeterminate
		switch {
		case selected == 0:
			want = model.Unselected
		case selected == total && !emptyFolder:
			want = model.Selected
		}
		if n.Selection != want {
			t.Errorf("folder %s: %d/%d items selected, got %s want %s", n.ID, selected, total, n.Selection, want)
		}
		return true
	})
}

// AssertSortedNumeric verifies ids are strictly ascending by numeric value.
func AssertSortedNumeric(t T, ids []string) {
	t.Helper()
	for i := 1; i < len(ids); i++ {
		a, errA := strconv.ParseInt(ids[i-1], 10, 64)
		b, errB := strconv.ParseInt(ids[i], 10, 64)
		if errA != nil || errB != nil {
			t.Errorf("non-numeric id in %v", ids)
			return
		}
		if a >= b {
			t.Errorf("ids not strictly ascending at %d: %v", i, ids)
			return
		}
	}
}
