// Package testutil provides deterministic folder/item fixtures and shared
// assertions for tree, selection and store tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/treepick/pkg/model"
)

// Fixture is a flat folder/item set as a data source would deliver it.
type Fixture struct {
	Description string         `json:"description"`
	Folders     []model.Folder `json:"folders"`
	Items       []model.Item   `json:"items"`
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed       int64   // Random seed for determinism (0 = use current time)
	ItemIDBase int64   // First item id (default: 100)
	LooseRate  float64 // Fraction of items with no folder
	OrphanRate float64 // Fraction of nodes pointing at a folder that does not exist
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		ItemIDBase: 100,
	}
}

// Generator creates fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.ItemIDBase == 0 {
		cfg.ItemIDBase = 100
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Flat creates `folders` root folders holding `perFolder` items each.
func (g *Generator) Flat(folders, perFolder int) Fixture {
	fx := Fixture{Description: fmt.Sprintf("%d root folders with %d items each", folders, perFolder)}
	next := g.cfg.ItemIDBase
	for f := 1; f <= folders; f++ {
		fx.Folders = append(fx.Folders, model.Folder{ID: int64(f), Title: fmt.Sprintf("Folder %d", f)})
		for i := 0; i < perFolder; i++ {
			fx.Items = append(fx.Items, model.Item{
				ID:       next,
				Title:    fmt.Sprintf("Item %d", next),
				FolderID: model.Int64(int64(f)),
			})
			next++
		}
	}
	return fx
}

// Chain creates `depth` nested folders, each holding one item.
func (g *Generator) Chain(depth int) Fixture {
	fx := Fixture{Description: fmt.Sprintf("chain of %d nested folders", depth)}
	for f := 1; f <= depth; f++ {
		folder := model.Folder{ID: int64(f), Title: fmt.Sprintf("Level %d", f)}
		if f > 1 {
			folder.ParentID = model.Int64(int64(f - 1))
		}
		fx.Folders = append(fx.Folders, folder)
		id := g.cfg.ItemIDBase + int64(f)
		fx.Items = append(fx.Items, model.Item{ID: id, Title: fmt.Sprintf("Item %d", id), FolderID: model.Int64(int64(f))})
	}
	return fx
}

// Random creates an acyclic hierarchy: every folder's parent has a lower id.
// LooseRate and OrphanRate from the config apply.
func (g *Generator) Random(folders, items int) Fixture {
	fx := Fixture{Description: fmt.Sprintf("random hierarchy of %d folders and %d items", folders, items)}
	for f := 1; f <= folders; f++ {
		folder := model.Folder{ID: int64(f), Title: fmt.Sprintf("Folder %d", f)}
		switch {
		case g.roll(g.cfg.OrphanRate):
			folder.ParentID = model.Int64(int64(folders + 1000 + f))
		case f > 1 && g.rng.Intn(3) != 0:
			folder.ParentID = model.Int64(int64(1 + g.rng.Intn(f-1)))
		}
		fx.Folders = append(fx.Folders, folder)
	}
	for i := 0; i < items; i++ {
		id := g.cfg.ItemIDBase + int64(i)
		item := model.Item{ID: id, Title: fmt.Sprintf("Item %d", id)}
		switch {
		case g.roll(g.cfg.OrphanRate):
			item.FolderID = model.Int64(int64(folders + 5000 + i))
		case g.roll(g.cfg.LooseRate) || folders == 0:
		default:
			item.FolderID = model.Int64(int64(1 + g.rng.Intn(folders)))
		}
		fx.Items = append(fx.Items, item)
	}
	return fx
}

func (g *Generator) roll(rate float64) bool {
	return rate > 0 && g.rng.Float64() < rate
}

// DrawFixture draws an acyclic fixture for property tests. Parents may be
// missing (orphans) but never form a cycle.
func DrawFixture(t *rapid.T) Fixture {
	nFolders := rapid.IntRange(0, 8).Draw(t, "folders")
	nItems := rapid.IntRange(0, 16).Draw(t, "items")

	var fx Fixture
	for f := 1; f <= nFolders; f++ {
		folder := model.Folder{ID: int64(f), Title: fmt.Sprintf("f%d", f)}
		// 0 = root, otherwise a lower folder id or (one past the end) a missing one.
		if p := rapid.IntRange(0, f).Draw(t, fmt.Sprintf("parent%d", f)); p > 0 {
			if p == f {
				p = nFolders + 100
			}
			folder.ParentID = model.Int64(int64(p))
		}
		fx.Folders = append(fx.Folders, folder)
	}
	for i := 0; i < nItems; i++ {
		item := model.Item{ID: int64(100 + i), Title: fmt.Sprintf("i%d", i)}
		if p := rapid.IntRange(0, nFolders+1).Draw(t, fmt.Sprintf("folder%d", i)); p > 0 {
			item.FolderID = model.Int64(int64(p))
		}
		fx.Items = append(fx.Items, item)
	}
	return fx
}

// Entities returns the namespaced folder and item entities of the fixture.
func (fx Fixture) Entities() (folders, items []model.Entity) {
	return model.FromFolders(fx.Folders), model.FromItems(fx.Items)
}
