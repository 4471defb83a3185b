package voxel

import "testing"

func TestGridIndexLayout(t *testing.T) {
	if got := index(0, 0, 1); got != 1 {
		t.Fatalf("index(0,0,1) = %d, want 1", got)
	}
	if got := index(0, 1, 0); got != Samples {
		t.Fatalf("index(0,1,0) = %d, want %d", got, Samples)
	}
	if got := index(1, 0, 0); got != Samples*Samples {
		t.Fatalf("index(1,0,0) = %d, want %d", got, Samples*Samples)
	}
	if got := index(Cells, Cells, Cells); got != Volume-1 {
		t.Fatalf("last index = %d, want %d", got, Volume-1)
	}
}

func TestGridSetAt(t *testing.T) {
	var g Grid
	g.Set(3, 4, 5, -2.5)
	if v := g.At(3, 4, 5); v != -2.5 {
		t.Fatalf("At(3,4,5) = %v, want -2.5", v)
	}
	g.Set(-1, 0, 0, -9)
	g.Set(0, Samples, 0, -9)
	if v := g.At(-1, 0, 0); v != 1 {
		t.Fatalf("out of range At = %v, want 1", v)
	}
	if lo, _ := g.Range(); lo != -2.5 {
		t.Fatalf("out of range Set leaked into grid, lo = %v", lo)
	}
}

func TestGridCrosses(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Grid)
		want  bool
	}{
		{"all empty", func(g *Grid) { g.Fill(1) }, false},
		{"all solid", func(g *Grid) { g.Fill(-1) }, false},
		{"one solid sample", func(g *Grid) { g.Fill(1); g.Set(8, 8, 8, -1) }, true},
		{"zero counts as empty", func(g *Grid) { g.Fill(0); g.Set(0, 0, 0, -0.1) }, true},
		{"all zero", func(g *Grid) { g.Fill(0) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grid
			tt.setup(&g)
			if got := g.Crosses(0); got != tt.want {
				t.Fatalf("Crosses(0) = %v, want %v", got, tt.want)
			}
		})
	}
}
