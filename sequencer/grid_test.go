package sequencer

import (
	"math/rand"
	"testing"
)

func TestGridToggle(t *testing.T) {
	g := NewGrid(4, 8)
	g.Toggle(2, 5)
	if !g[2][5] {
		t.Fatal("cell not activated")
	}
	g.Toggle(2, 5)
	if g[2][5] {
		t.Fatal("cell not deactivated")
	}

	// Out-of-range toggles are ignored.
	g.Toggle(-1, 0)
	g.Toggle(0, -1)
	g.Toggle(4, 0)
	g.Toggle(0, 8)
}

func TestGridClear(t *testing.T) {
	g := NewGrid(3, 4)
	g.Toggle(0, 0)
	g.Toggle(2, 3)
	g.Clear()
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				t.Fatalf("cell [%d][%d] survived Clear", r, c)
			}
		}
	}
}

func TestGridRandomizeShape(t *testing.T) {
	g := NewGrid(7, 16)
	g.Randomize(rand.New(rand.NewSource(1)))
	if g.Rows() != 7 || g.Cols() != 16 {
		t.Fatalf("randomize changed shape to %dx%d", g.Rows(), g.Cols())
	}
	active := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				active++
			}
		}
	}
	if active == 0 || active == 7*16 {
		t.Fatalf("randomize produced a degenerate grid (%d active)", active)
	}
}

func TestGridResizePreservesOverlap(t *testing.T) {
	g := NewGrid(4, 8)
	g.Toggle(1, 2)
	g.Toggle(3, 7)

	small := g.Resize(2, 4)
	if small.Rows() != 2 || small.Cols() != 4 {
		t.Fatalf("resized to %dx%d, want 2x4", small.Rows(), small.Cols())
	}
	if !small[1][2] {
		t.Fatal("overlapping cell lost in shrink")
	}

	big := small.Resize(6, 12)
	if !big[1][2] {
		t.Fatal("overlapping cell lost in grow")
	}
	if big[3][7] {
		t.Fatal("cell dropped by shrink reappeared after grow")
	}
}

func TestGridValidate(t *testing.T) {
	g := NewGrid(4, 8)
	if err := g.Validate(4, 8); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
	if err := g.Validate(5, 8); err == nil {
		t.Fatal("row mismatch accepted")
	}
	if err := g.Validate(4, 6); err == nil {
		t.Fatal("column mismatch accepted")
	}

	ragged := NewGrid(3, 4)
	ragged[1] = ragged[1][:2]
	if err := ragged.Validate(3, 4); err == nil {
		t.Fatal("ragged grid accepted")
	}
}

func TestGridColumn(t *testing.T) {
	g := NewGrid(3, 4)
	g.Toggle(0, 2)
	g.Toggle(2, 2)
	col := g.Column(2)
	want := []bool{true, false, true}
	for i := range want {
		if col[i] != want[i] {
			t.Fatalf("column 2 = %v, want %v", col, want)
		}
	}

	// The copy is detached from the grid.
	col[1] = true
	if g[1][2] {
		t.Fatal("Column returned a live reference")
	}
}
