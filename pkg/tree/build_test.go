package tree

import (
	"testing"

	"github.com/vanderheijden86/treepick/pkg/model"
)

func folder(id, title string, parent *string) model.Entity {
	return model.Entity{ID: id, Title: title, Kind: model.KindFolder, ParentID: parent}
}

func item(id, title string, parent *string) model.Entity {
	return model.Entity{ID: id, Title: title, Kind: model.KindItem, ParentID: parent}
}

func ref(s string) *string { return &s }

func childIDs(n *model.Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestBuildEmpty verifies Build handles empty input
func TestBuildEmpty(t *testing.T) {
	if roots := Build(nil, nil); len(roots) != 0 {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}

// TestBuildSingleFolder mirrors the basic one-folder, two-item load
func TestBuildSingleFolder(t *testing.T) {
	folders := []model.Entity{folder("folder_1", "A", nil)}
	items := []model.Entity{
		item("10", "x", ref("folder_1")),
		item("11", "y", ref("folder_1")),
	}

	roots := Build(folders, items)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	root := roots[0]
	if root.ID != "folder_1" || !root.IsFolder() {
		t.Errorf("expected root folder_1, got %s (%s)", root.ID, root.Kind)
	}
	if got := childIDs(root); !equalIDs(got, []string{"10", "11"}) {
		t.Errorf("expected children [10 11], got %v", got)
	}
	for _, c := range root.Children {
		if c.Children != nil {
			t.Errorf("item %s should have no children slice", c.ID)
		}
	}
}

// TestBuildNestedFolders verifies folders nest under folders and keep input order
func TestBuildNestedFolders(t *testing.T) {
	folders := []model.Entity{
		folder("folder_1", "root", nil),
		folder("folder_2", "sub b", ref("folder_1")),
		folder("folder_3", "sub a", ref("folder_1")),
	}
	items := []model.Entity{
		item("5", "in b", ref("folder_2")),
		item("1", "in root", ref("folder_1")),
		item("9", "loose", nil),
	}

	roots := Build(folders, items)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "folder_1" || roots[1].ID != "9" {
		t.Errorf("unexpected root order: %s, %s", roots[0].ID, roots[1].ID)
	}
	// Folders are assigned before items, so sub-folders precede items.
	if got := childIDs(roots[0]); !equalIDs(got, []string{"folder_2", "folder_3", "1"}) {
		t.Errorf("unexpected children of folder_1: %v", got)
	}
	if got := childIDs(roots[0].Children[0]); !equalIDs(got, []string{"5"}) {
		t.Errorf("unexpected children of folder_2: %v", got)
	}
	if len(roots[0].Children[1].Children) != 0 || roots[0].Children[1].Children == nil {
		t.Error("empty folder should have an empty, non-nil children slice")
	}
}

// TestBuildOrphanPromotion verifies unresolved parents become roots
func TestBuildOrphanPromotion(t *testing.T) {
	folders := []model.Entity{
		folder("folder_1", "real", nil),
		folder("folder_2", "orphan folder", ref("folder_99")),
	}
	items := []model.Entity{
		item("3", "orphan item", ref("folder_42")),
	}

	roots := Build(folders, items)
	var ids []string
	for _, r := range roots {
		ids = append(ids, r.ID)
	}
	if !equalIDs(ids, []string{"folder_1", "folder_2", "3"}) {
		t.Errorf("expected orphans promoted to roots in input order, got %v", ids)
	}
	if Count(roots) != 3 {
		t.Errorf("expected 3 nodes, got %d", Count(roots))
	}
}

// TestBuildCycleIsBroken verifies a parent cycle terminates and keeps every node
func TestBuildCycleIsBroken(t *testing.T) {
	folders := []model.Entity{
		folder("folder_1", "a", ref("folder_3")),
		folder("folder_2", "b", ref("folder_1")),
		folder("folder_3", "c", ref("folder_2")),
		folder("folder_4", "self", ref("folder_4")),
	}
	items := []model.Entity{
		item("7", "inside cycle", ref("folder_2")),
	}

	roots := Build(folders, items)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots (one per cycle), got %d", len(roots))
	}
	if roots[0].ID != "folder_1" {
		t.Errorf("expected cycle broken at first input member folder_1, got %s", roots[0].ID)
	}
	if roots[1].ID != "folder_4" {
		t.Errorf("expected self-parented folder_4 promoted, got %s", roots[1].ID)
	}
	if Count(roots) != 5 {
		t.Errorf("expected all 5 entities present, got %d", Count(roots))
	}
	if n := Find(roots, "7"); n == nil {
		t.Error("item under cycle missing from forest")
	}
}

// TestBuildIdempotent verifies two builds from the same input are structurally identical
func TestBuildIdempotent(t *testing.T) {
	folders := []model.Entity{
		folder("folder_1", "a", nil),
		folder("folder_2", "b", ref("folder_1")),
	}
	items := []model.Entity{
		item("1", "x", ref("folder_2")),
		item("2", "y", ref("folder_1")),
	}

	var first, second []string
	Walk(Build(folders, items), func(n *model.Node, depth int) bool {
		first = append(first, n.ID)
		return true
	})
	Walk(Build(folders, items), func(n *model.Node, depth int) bool {
		second = append(second, n.ID)
		return true
	})
	if !equalIDs(first, second) {
		t.Errorf("builds differ: %v vs %v", first, second)
	}
}

// TestBuildFreshNodes verifies builds never share node pointers
func TestBuildFreshNodes(t *testing.T) {
	folders := []model.Entity{folder("folder_1", "a", nil)}
	a := Build(folders, nil)
	b := Build(folders, nil)
	if a[0] == b[0] {
		t.Error("expected a fresh node per build")
	}
	a[0].Collapsed = true
	if b[0].Collapsed {
		t.Error("mutating one build leaked into another")
	}
}

func TestVisibleSkipsCollapsedChildren(t *testing.T) {
	roots := Build(
		[]model.Entity{folder("folder_1", "a", nil), folder("folder_2", "b", nil)},
		[]model.Entity{item("1", "x", ref("folder_1")), item("2", "y", ref("folder_2"))},
	)
	roots[0].Collapsed = true

	nodes, depths := Visible(roots)
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	if !equalIDs(ids, []string{"folder_1", "folder_2", "2"}) {
		t.Errorf("unexpected visible nodes: %v", ids)
	}
	if depths[2] != 1 {
		t.Errorf("expected depth 1 for item 2, got %d", depths[2])
	}
}

func TestFindMissing(t *testing.T) {
	roots := Build([]model.Entity{folder("folder_1", "a", nil)}, nil)
	if Find(roots, "nope") != nil {
		t.Error("expected nil for unknown id")
	}
	if Find(roots, "folder_1") == nil {
		t.Error("expected to find folder_1")
	}
}
