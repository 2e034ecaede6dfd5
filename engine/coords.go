package engine

import (
	"fmt"
	"strconv"
	"strings"

	"termzero/types"
)

// Display coordinate system:
// - Columns: A-T (skipping I to avoid confusion with 1)
// - Rows: 1-19 counted from the bottom of the board
// - Example: D4, Q16, K10
//
// Grid coordinate system:
// - Col: 0-18 (left to right)
// - Row: 0-18 (top to bottom)
// - Example: (15, 3) for D4 on a 19x19 board

// PosToDisplay converts a grid cell to display notation.
// For a 19x19 board: (18, 0) -> A1, (15, 3) -> D4, (3, 15) -> Q16
func PosToDisplay(c types.Cell, size int) string {
	col := 'A' + rune(c.Col)
	if c.Col >= 8 {
		col++ // Skip 'I'
	}
	return fmt.Sprintf("%c%d", col, size-c.Row)
}

// MoveToDisplay renders a move in display notation.
func MoveToDisplay(m types.Move, size int) string {
	switch m.Kind {
	case types.Pass:
		return "pass"
	case types.Transfer:
		return PosToDisplay(m.From, size) + "-" + PosToDisplay(m.To, size)
	}
	return PosToDisplay(m.To, size)
}

// ParseDisplay converts display notation back to a grid cell.
// "pass" yields a pass move.
func ParseDisplay(vertex string, size int) (types.Move, error) {
	vertex = strings.TrimSpace(strings.ToUpper(vertex))

	if vertex == "PASS" {
		return types.PassMove(), nil
	}

	if len(vertex) < 2 {
		return types.Move{}, fmt.Errorf("invalid vertex: %s", vertex)
	}

	// Parse column (A-T, no I)
	col := int(vertex[0]) - 'A'
	if col < 0 || col > 19 || vertex[0] == 'I' {
		return types.Move{}, fmt.Errorf("invalid column in vertex: %s", vertex)
	}
	if col > 7 {
		col-- // Account for skipped 'I'
	}

	row, err := strconv.Atoi(vertex[1:])
	if err != nil {
		return types.Move{}, fmt.Errorf("invalid row in vertex: %s", vertex)
	}

	// Invert from bottom-up to top-down
	r := size - row

	if col >= size || r < 0 || r >= size {
		return types.Move{}, fmt.Errorf("vertex out of bounds: %s", vertex)
	}

	return types.PlaceAt(r, col), nil
}
