package tree

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/treepick/pkg/metrics"
	"github.com/vanderheijden86/treepick/pkg/model"
)

// Cycles reports every parent cycle among entities as a list of node ids,
// each cycle sorted by id. A node that names itself as parent is a cycle of
// one. Build already breaks these cycles; Cycles exists so callers can warn
// about the malformed input.
func Cycles(entities []model.Entity) [][]string {
	defer metrics.Timer(metrics.CycleDetection)()

	ids := make(map[string]int64, len(entities))
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, ok := ids[e.ID]; ok {
			continue
		}
		ids[e.ID] = int64(len(names))
		names = append(names, e.ID)
	}

	g := simple.NewDirectedGraph()
	for i := range names {
		g.AddNode(simple.Node(int64(i)))
	}

	var cycles [][]string
	for _, e := range entities {
		if e.ParentID == nil {
			continue
		}
		p, ok := ids[*e.ParentID]
		if !ok {
			continue
		}
		c := ids[e.ID]
		if p == c {
			// simple graphs reject self edges
			cycles = append(cycles, []string{e.ID})
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(c), simple.Node(p)))
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		cycle := make([]string, 0, len(scc))
		for _, n := range scc {
			cycle = append(cycle, names[n.ID()])
		}
		sort.Strings(cycle)
		cycles = append(cycles, cycle)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles
}
