package main

import "math"

// EntityRef identifies a tank in the grid
type EntityRef struct {
	Kind byte // 'p'=player, 'e'=enemy
	Idx  int  // index into the enemy slice ('e' only)
}

// SpatialGrid is a broad-phase index over tanks, sized to the
// playfield at construction. Rebuilt every tick before the projectile
// collision pass.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]EntityRef
}

// NewSpatialGrid builds a grid covering bounds with roughly
// tank-sized cells.
func NewSpatialGrid(bounds Bounds, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 80
	}
	cols := int(math.Ceil(bounds.Width/cellSize)) + 1
	rows := int(math.Ceil(bounds.Height/cellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) clampCell(c, limit int) int {
	if c < 0 {
		return 0
	}
	if c >= limit {
		return limit - 1
	}
	return c
}

// InsertCircle adds a tank reference to all cells overlapping its
// bounding box.
func (g *SpatialGrid) InsertCircle(x, y, radius float64, ref EntityRef) {
	minCX := g.clampCell(int((x-radius)/g.cellSize), g.cols)
	maxCX := g.clampCell(int((x+radius)/g.cellSize), g.cols)
	minCY := g.clampCell(int((y-radius)/g.cellSize), g.rows)
	maxCY := g.clampCell(int((y+radius)/g.cellSize), g.rows)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends refs from cells overlapping the given bounding box
// to buf and returns the extended slice, avoiding per-call allocation.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	minCX := g.clampCell(int((x-radius)/g.cellSize), g.cols)
	maxCX := g.clampCell(int((x+radius)/g.cellSize), g.cols)
	minCY := g.clampCell(int((y-radius)/g.cellSize), g.rows)
	maxCY := g.clampCell(int((y+radius)/g.cellSize), g.rows)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			buf = append(buf, g.cells[idx]...)
		}
	}
	return buf
}
