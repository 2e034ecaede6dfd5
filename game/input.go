package game

import "termzero/types"

// TranslatePointer maps a pointer position to the grid cell under it.
// Anything left of or above the origin, or at or past the grid extent,
// yields types.OutOfBounds.
func TranslatePointer(g types.Geometry, x, y int) types.Cell {
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return types.OutOfBounds
	}
	// Go's integer division truncates toward zero, so a pointer one cell
	// left of the origin would otherwise land on column 0.
	if x < g.OriginX || y < g.OriginY {
		return types.OutOfBounds
	}
	c := types.Cell{
		Row: (y - g.OriginY) / g.CellHeight,
		Col: (x - g.OriginX) / g.CellWidth,
	}
	if !c.In(g.Rows, g.Cols) {
		return types.OutOfBounds
	}
	return c
}
