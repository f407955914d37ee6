//go:build ignore

// generate_testdata.go writes sample folder/item documents for demos and
// benchmarks, readable with `treepick --path <file>`.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/small.json   (20 folders, 200 items)
//	tests/testdata/medium.json  (200 folders, 5000 items)
//	tests/testdata/large.json   (2000 folders, 50000 items)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/treepick/internal/datasource"
	"github.com/vanderheijden86/treepick/pkg/store"
	"github.com/vanderheijden86/treepick/pkg/testutil"
)

type datasetSpec struct {
	name    string
	folders int
	items   int
}

var datasets = []datasetSpec{
	{"small", 20, 200},
	{"medium", 200, 5000},
	{"large", 2000, 50000},
}

func main() {
	outputDir := "tests/testdata"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d folders, %d items)...\n", ds.name, ds.folders, ds.items)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:       int64(ds.folders + ds.items),
			ItemIDBase: 1,
			LooseRate:  0.02,
			OrphanRate: 0.005,
		})
		fx := gen.Random(ds.folders, ds.items)

		data, err := datasource.EncodeDocument(store.Payload{Folders: fx.Folders, Items: fx.Items})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		outputPath := filepath.Join(outputDir, ds.name+".json")
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(data))
	}

	fmt.Println("\nDone! Datasets created in", outputDir)
}
