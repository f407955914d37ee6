package selection

import (
	"testing"

	"github.com/vanderheijden86/treepick/pkg/testutil"
	"github.com/vanderheijden86/treepick/pkg/tree"
)

func BenchmarkAnnotate(b *testing.B) {
	fx := testutil.NewDefault().Random(200, 5000)
	fs, is := fx.Entities()
	roots := tree.Build(fs, is)

	e := NewEngine()
	for _, r := range roots[:len(roots)/2] {
		e.Toggle(r)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Annotate(roots)
	}
}

func BenchmarkToggleRoot(b *testing.B) {
	fx := testutil.NewDefault().Flat(1, 10000)
	fs, is := fx.Entities()
	roots := tree.Build(fs, is)

	e := NewEngine()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Toggle(roots[0])
	}
}
