package testutil

import (
	"testing"

	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/tree"
)

func TestFlat(t *testing.T) {
	fx := NewDefault().Flat(3, 4)
	if len(fx.Folders) != 3 || len(fx.Items) != 12 {
		t.Fatalf("expected 3 folders and 12 items, got %d/%d", len(fx.Folders), len(fx.Items))
	}
	roots := tree.Build(fx.Entities())
	if len(roots) != 3 {
		t.Errorf("expected 3 roots, got %d", len(roots))
	}
	AssertNodeCount(t, roots, 15)
	AssertNoDuplicateIDs(t, roots)
}

func TestChain(t *testing.T) {
	tests := []struct {
		name      string
		depth     int
		wantNodes int
	}{
		{"chain_1", 1, 2},
		{"chain_3", 3, 6},
		{"chain_8", 8, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := tree.Build(NewDefault().Chain(tt.depth).Entities())
			if len(roots) != 1 {
				t.Fatalf("expected a single root, got %d", len(roots))
			}
			AssertNodeCount(t, roots, tt.wantNodes)

			deepest := 0
			tree.Walk(roots, func(_ *model.Node, depth int) bool {
				if depth > deepest {
					deepest = depth
				}
				return true
			})
			if deepest != tt.depth {
				t.Errorf("expected max depth %d, got %d", tt.depth, deepest)
			}
		})
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7, LooseRate: 0.2, OrphanRate: 0.1}).Random(10, 30)
	b := New(GeneratorConfig{Seed: 7, LooseRate: 0.2, OrphanRate: 0.1}).Random(10, 30)
	if len(a.Folders) != len(b.Folders) || len(a.Items) != len(b.Items) {
		t.Fatal("fixture sizes differ for the same seed")
	}
	for i := range a.Folders {
		pa, pb := a.Folders[i].ParentID, b.Folders[i].ParentID
		if (pa == nil) != (pb == nil) || (pa != nil && *pa != *pb) {
			t.Errorf("folder %d parent differs between runs", a.Folders[i].ID)
		}
	}
}

func TestRandomIsAcyclic(t *testing.T) {
	fx := New(GeneratorConfig{Seed: 99}).Random(25, 50)
	folders, items := fx.Entities()
	if cycles := tree.Cycles(append(folders, items...)); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
	AssertNodeCount(t, tree.Build(folders, items), 75)
}
