// Package ui draws boards in the terminal and turns terminal input into game events.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termzero/config"
	"termzero/types"
)

// Board layout on screen: two columns for row numbers and a gap, the grid
// starting two rows below the title, two characters per cell.
const (
	boardLeft  = 4
	boardTop   = 2
	cellWidth  = 2
	cellHeight = 1
	panelWidth = 26
)

// RenderConfig is fixed for the lifetime of a game. Build it once with
// NewRenderConfig and share it between the renderer and the input translator.
type RenderConfig struct {
	variant   types.Variant
	geometry  types.Geometry
	title     string
	gridLines bool
	symbols   config.ConfigSymbols

	cursorBG     bool
	lastPlayedBG bool

	board      tcell.Color
	boardAlt   tcell.Color
	line       tcell.Color
	pieces     [3]tcell.Color // indexed by Player
	selected   [3]tcell.Color
	hint       tcell.Color
	cursor     tcell.Color
	lastPlayed tcell.Color
}

// NewRenderConfig derives geometry and styles for a rows x cols board of v.
func NewRenderConfig(v types.Variant, rows, cols int, theme config.Theme) RenderConfig {
	colors := theme.Colors(v)
	rc := RenderConfig{
		variant: v,
		geometry: types.Geometry{
			OriginX:    boardLeft,
			OriginY:    boardTop,
			CellWidth:  cellWidth,
			CellHeight: cellHeight,
			Rows:       rows,
			Cols:       cols,
		},
		title:        fmt.Sprintf("%s %dx%d", v, rows, cols),
		gridLines:    v == types.Go && theme.UseGridLines,
		symbols:      theme.Symbols,
		cursorBG:     theme.DrawCursorBackground,
		lastPlayedBG: theme.DrawLastPlayedBackground,
		board:        tcell.PaletteColor(colors.Board),
		boardAlt:     tcell.PaletteColor(colors.Board),
		line:         tcell.PaletteColor(colors.Line),
		hint:         tcell.PaletteColor(colors.Hint),
		cursor:       tcell.PaletteColor(theme.CursorColorBG),
		lastPlayed:   tcell.PaletteColor(theme.LastPlayedColorBG),
	}
	// Ataxx cells are squares, shaded like a chequerboard with the line colour.
	if v == types.Ataxx {
		rc.boardAlt = rc.line
	}
	rc.pieces[types.PlayerOne] = tcell.PaletteColor(colors.PlayerOne)
	rc.pieces[types.PlayerTwo] = tcell.PaletteColor(colors.PlayerTwo)
	rc.selected[types.PlayerOne] = tcell.PaletteColor(colors.PlayerOneSelected)
	rc.selected[types.PlayerTwo] = tcell.PaletteColor(colors.PlayerTwoSelected)
	return rc
}

func (rc RenderConfig) Variant() types.Variant   { return rc.variant }
func (rc RenderConfig) Geometry() types.Geometry { return rc.geometry }
func (rc RenderConfig) Title() string            { return rc.title }

// Width is the screen width needed for the board, its coordinates and the
// side panel.
func (rc RenderConfig) Width() int {
	w, _ := rc.geometry.Extent()
	return boardLeft + w + 2 + panelWidth
}

// at returns a copy of rc with the board's top-left cell at (x, y).
func (rc RenderConfig) at(x, y int) RenderConfig {
	rc.geometry.OriginX = x
	rc.geometry.OriginY = y
	return rc
}

// cellLook is what one cell should show given the current selection state.
type cellLook struct {
	occupant types.Player
	selected bool
	hinted   bool
	cursor   bool
	last     bool
	// right is the occupant of the cell to the right, for grid connectors.
	right types.Player
}

// drawCell paints the two screen columns of cell (r, c).
func (rc RenderConfig) drawCell(s tcell.Screen, r, c int, look cellLook) {
	x, y := rc.geometry.Anchor(types.Cell{Row: r, Col: c})

	bg := rc.board
	if (r%2+c%2) == 1 && !rc.gridLines {
		bg = rc.boardAlt
	}
	if look.last && rc.lastPlayedBG {
		bg = rc.lastPlayed
	}
	if look.cursor && rc.cursorBG {
		bg = rc.cursor
	}

	var main, conn rune = ' ', ' '
	fg := rc.line
	switch {
	case look.occupant != types.Empty:
		main = rc.symbols.Piece
		fg = rc.pieces[look.occupant]
		if look.selected {
			fg = rc.selected[look.occupant]
		}
	case look.hinted:
		main = rc.symbols.Hint
		fg = rc.hint
	case rc.gridLines:
		main = getGridRune(c, r, rc.geometry.Cols, rc.geometry.Rows, isHoshiPoint(c, r, rc.geometry.Cols))
	}
	if look.occupant == types.Empty && !look.hinted {
		if look.cursor && !rc.cursorBG {
			main = rc.symbols.Cursor
		} else if look.last && !rc.lastPlayedBG {
			main = rc.symbols.LastPlayed
		}
	}
	// Grid lines run on to the next intersection unless a stone sits there.
	if rc.gridLines && c < rc.geometry.Cols-1 && look.right == types.Empty {
		conn = '─'
	}

	style := tcell.StyleDefault.Background(bg).Foreground(fg)
	s.SetContent(x, y, main, nil, style)
	s.SetContent(x+1, y, conn, nil, tcell.StyleDefault.Background(bg).Foreground(rc.line))
}

// drawCoordinates puts column letters under the board and row numbers to its
// left, numbered from the bottom as in Go notation.
func (rc RenderConfig) drawCoordinates(s tcell.Screen, cursor, last types.Cell) {
	g := rc.geometry
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(rc.cursor)
	lpHighlight := tcell.StyleDefault.Background(rc.lastPlayed)

	_, h := g.Extent()
	for ix := 0; ix < g.Cols; ix++ {
		st := style
		if ix == cursor.Col {
			st = highlight
		} else if ix == last.Col {
			st = lpHighlight
		}
		letter := 'A' + rune(ix)
		if ix >= 8 {
			letter++ // no I
		}
		x, _ := g.Anchor(types.Cell{Col: ix})
		s.SetContent(x, g.OriginY+h, letter, nil, st)
		s.SetContent(x+1, g.OriginY+h, ' ', nil, st)
	}

	for iy := 0; iy < g.Rows; iy++ {
		st := style
		if iy == cursor.Row {
			st = highlight
		} else if iy == last.Row {
			st = lpHighlight
		}
		displayNum := g.Rows - iy
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		_, y := g.Anchor(types.Cell{Row: iy})
		s.SetContent(1, y, tensRune, nil, st)
		s.SetContent(2, y, rune('0'+displayNum%10), nil, st)
	}
}

// getGridRune returns the appropriate box-drawing character for a grid position
func getGridRune(x, y, width, height int, isHoshi bool) rune {
	if isHoshi {
		return '◦'
	}

	isTop := y == 0
	isBottom := y == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// isHoshiPoint checks if a position is a star point on the board.
func isHoshiPoint(x, y, boardSize int) bool {
	var hoshiPositions [][2]int

	switch boardSize {
	case 9:
		hoshiPositions = [][2]int{
			{2, 2}, {2, 6},
			{4, 4},
			{6, 2}, {6, 6},
		}
	case 13:
		hoshiPositions = [][2]int{
			{3, 3}, {3, 9},
			{6, 6},
			{9, 3}, {9, 9},
		}
	case 19:
		hoshiPositions = [][2]int{
			{3, 3}, {3, 9}, {3, 15},
			{9, 3}, {9, 9}, {9, 15},
			{15, 3}, {15, 9}, {15, 15},
		}
	default:
		return false
	}

	for _, pos := range hoshiPositions {
		if x == pos[0] && y == pos[1] {
			return true
		}
	}
	return false
}

// hintCells returns the empty cells in the 3x3 block around c.
func hintCells(state *types.BoardState, c types.Cell) map[types.Cell]bool {
	cells := map[types.Cell]bool{}
	if state == nil || !c.In(state.Height(), state.Width()) {
		return cells
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := types.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if n.In(state.Height(), state.Width()) && state.At(n) == types.Empty {
				cells[n] = true
			}
		}
	}
	return cells
}
