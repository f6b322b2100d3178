package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection in a bounded arena.
// Rectangles are inserted by index into every cell they cover, then candidates
// overlapping a query rectangle are found without scanning every item.
//
// Positions outside the arena are clamped to the border cells, so entities that
// are still entering from above the visible area are bucketed into the top row.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell

	// Per-query dedupe: an item spanning several cells is reported once.
	seen  []uint32
	stamp uint32
}

// gridCell stores the indices of items that touch a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given arena dimensions.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) to every cell covered by r.
func (g *SpatialGrid) Insert(r Rect, index int) {
	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		offset := row * g.cols
		for col := c0; col <= c1; col++ {
			cell := &g.cells[offset+col]
			cell.items = append(cell.items, index)
		}
	}
	if index >= len(g.seen) {
		grown := make([]uint32, index+1)
		copy(grown, g.seen)
		g.seen = grown
	}
}

// Query calls fn once for each item sharing a cell with r.
// Candidates still need an exact Overlaps test.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) Query(r Rect, fn func(index int) bool) {
	g.stamp++
	if g.stamp == 0 {
		clear(g.seen)
		g.stamp = 1
	}

	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		offset := row * g.cols
		for col := c0; col <= c1; col++ {
			for _, idx := range g.cells[offset+col].items {
				if g.seen[idx] == g.stamp {
					continue
				}
				g.seen[idx] = g.stamp
				if fn(idx) {
					return
				}
			}
		}
	}
}

// span returns the inclusive cell range covered by r.
func (g *SpatialGrid) span(r Rect) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(r.X, r.Y)
	c1, r1 = g.posToCell(r.X+r.W, r.Y+r.H)
	return c0, r0, c1, r1
}

// posToCell converts arena coordinates to grid cell coordinates.
// Clamps to valid range to handle off-arena entities and floating point edges.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
