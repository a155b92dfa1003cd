package bfs_test

import (
	"testing"

	"github.com/katalvlaran/mofcheck/bfs"
	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// BenchmarkComponents_Supercell measures component discovery on a
// 6×6×6 simple-cubic carbon net (216 nodes, 648 edges).
func BenchmarkComponents_Supercell(b *testing.B) {
	s := builder.MustBuild([]builder.BuilderOption{builder.WithCubicCell(1.5)}, builder.Net("C"))
	sc, err := s.Supercell(6, 6, 6)
	if err != nil {
		b.Fatal(err)
	}
	g, err := neighbors.Build(sc, "jmol")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(g.Len() + len(g.Edges())))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = bfs.Components(g)
	}
}
