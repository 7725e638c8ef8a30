package sequencer

import (
	"fmt"
	"math/rand"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Grid is the rectangular activation matrix, indexed [row][col]. Row count
// tracks the active note names, column count the configured step count.
type Grid [][]bool

// NewGrid returns an all-inactive grid.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]bool, cols)
	}
	return g
}

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Toggle flips one cell. Out-of-range indices are ignored.
func (g Grid) Toggle(row, col int) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return
	}
	g[row][col] = !g[row][col]
}

// Clear deactivates every cell in place.
func (g Grid) Clear() {
	for r := range g {
		for c := range g[r] {
			g[r][c] = false
		}
	}
}

// randomizeDensity is the chance a cell comes up active.
const randomizeDensity = 0.25

// Randomize rewrites every cell from rng.
func (g Grid) Randomize(rng *rand.Rand) {
	for r := range g {
		for c := range g[r] {
			g[r][c] = rng.Float64() < randomizeDensity
		}
	}
}

// Resize returns a new grid of the requested shape, keeping every cell
// that exists in both shapes. The receiver is untouched; a grid is
// replaced wholesale on reconfiguration.
func (g Grid) Resize(rows, cols int) Grid {
	next := NewGrid(rows, cols)
	for r := 0; r < rows && r < len(g); r++ {
		for c := 0; c < cols && c < len(g[r]); c++ {
			next[r][c] = g[r][c]
		}
	}
	return next
}

// Validate checks the grid against the configured dimensions: every row
// present and equally long. A mismatch is a configuration error; playback
// must refuse to start rather than partially render.
func (g Grid) Validate(rows, cols int) error {
	if len(g) != rows {
		return fault.New("grid dimension mismatch",
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc(
				fmt.Sprintf("grid has %d rows, configured for %d", len(g), rows),
				"The grid does not match the configured note range"))
	}
	for r := range g {
		if len(g[r]) != cols {
			return fault.New("grid dimension mismatch",
				ftag.With(ftag.InvalidArgument),
				fmsg.WithDesc(
					fmt.Sprintf("row %d has %d columns, configured for %d", r, len(g[r]), cols),
					"The grid does not match the configured step count"))
		}
	}
	return nil
}

// Column copies one column's cells, top row first.
func (g Grid) Column(col int) []bool {
	out := make([]bool, len(g))
	for r := range g {
		if col >= 0 && col < len(g[r]) {
			out[r] = g[r][col]
		}
	}
	return out
}
