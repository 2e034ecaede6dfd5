// Package types contains shared data structures for termzero.
package types

import (
	"fmt"
	"strings"
)

// Player identifies a side, or the absence of a piece on a cell.
type Player int8

const (
	Empty     Player = 0
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

// Opponent returns the other side. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player 1"
	case PlayerTwo:
		return "player 2"
	}
	return "empty"
}

// Cell is a grid index. Rows grow downwards, columns to the right.
type Cell struct {
	Row int
	Col int
}

// OutOfBounds is returned for pointer positions that do not land on the grid.
// It is not a valid index in any dimension, so it can never be confused with (0, 0).
var OutOfBounds = Cell{Row: -1, Col: -1}

// In reports whether the cell lies inside a rows x cols grid.
func (c Cell) In(rows, cols int) bool {
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// MoveKind selects which fields of a Move are meaningful.
type MoveKind int8

const (
	// Placement introduces a new piece on To.
	Placement MoveKind = iota
	// Transfer relocates or duplicates the piece on From onto To.
	Transfer
	// Pass skips the turn (Go only).
	Pass
)

// Move is a single turn. From is only meaningful for Transfer moves.
type Move struct {
	Kind MoveKind
	From Cell
	To   Cell
}

// PlaceAt builds a placement move.
func PlaceAt(row, col int) Move {
	return Move{Kind: Placement, From: OutOfBounds, To: Cell{row, col}}
}

// TransferFrom builds a transfer move.
func TransferFrom(from, to Cell) Move {
	return Move{Kind: Transfer, From: from, To: to}
}

// PassMove builds a pass.
func PassMove() Move {
	return Move{Kind: Pass, From: OutOfBounds, To: OutOfBounds}
}

// WellFormed reports whether every index of the move lies inside the grid.
// It says nothing about legality.
func (m Move) WellFormed(rows, cols int) bool {
	switch m.Kind {
	case Placement:
		return m.To.In(rows, cols)
	case Transfer:
		return m.From.In(rows, cols) && m.To.In(rows, cols)
	case Pass:
		return true
	}
	return false
}

func (m Move) String() string {
	switch m.Kind {
	case Placement:
		return m.To.String()
	case Transfer:
		return m.From.String() + "->" + m.To.String()
	case Pass:
		return "pass"
	}
	return "?"
}

// Outcome is the result of a game.
type Outcome int8

const (
	InProgress Outcome = iota
	PlayerOneWins
	PlayerTwoWins
	Draw
)

// Terminal reports whether the game has ended.
func (o Outcome) Terminal() bool {
	return o != InProgress
}

// Winner returns the winning player, or Empty for a draw or a game in progress.
func (o Outcome) Winner() Player {
	switch o {
	case PlayerOneWins:
		return PlayerOne
	case PlayerTwoWins:
		return PlayerTwo
	}
	return Empty
}

// WinFor returns the outcome in which p wins.
func WinFor(p Player) Outcome {
	switch p {
	case PlayerOne:
		return PlayerOneWins
	case PlayerTwo:
		return PlayerTwoWins
	}
	return Draw
}

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case PlayerOneWins:
		return "player 1 wins"
	case PlayerTwoWins:
		return "player 2 wins"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// MoveShape is the selection shape a variant asks from a human.
type MoveShape int8

const (
	ShapePlacement MoveShape = iota
	ShapeTransfer
)

// Variant is the closed set of supported games.
type Variant int8

const (
	Ataxx Variant = iota
	Go
)

// Shape returns how a human assembles a move in this variant.
func (v Variant) Shape() MoveShape {
	if v == Ataxx {
		return ShapeTransfer
	}
	return ShapePlacement
}

func (v Variant) String() string {
	if v == Ataxx {
		return "Ataxx"
	}
	return "Go"
}

// Code is the one-letter tag used in model names (A4, G9, ...).
func (v Variant) Code() string {
	if v == Ataxx {
		return "A"
	}
	return "G"
}

// ParseVariant accepts "ataxx", "a", "go" and "g" in any case.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ataxx", "a":
		return Ataxx, nil
	case "go", "g":
		return Go, nil
	}
	return Ataxx, fmt.Errorf("unknown game %q", s)
}

// BoardState is a read-only snapshot of a board.
// Board is indexed as Board[row][col].
type BoardState struct {
	Variant      Variant
	MoveNumber   int
	PlayerToMove Player
	Board        [][]Player
	LastMove     *Move
	Outcome      Outcome
	Score        [3]float64 // indexed by Player
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Outcome.Terminal()
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// At returns the occupant of c, or Empty when c is off the board.
func (b *BoardState) At(c Cell) Player {
	if !c.In(b.Height(), b.Width()) {
		return Empty
	}
	return b.Board[c.Row][c.Col]
}

// NewGrid creates an empty rows x cols grid.
func NewGrid(rows, cols int) [][]Player {
	grid := make([][]Player, rows)
	for i := range grid {
		grid[i] = make([]Player, cols)
	}
	return grid
}

// CopyGrid returns a deep copy of grid.
func CopyGrid(grid [][]Player) [][]Player {
	out := make([][]Player, len(grid))
	for i := range grid {
		out[i] = make([]Player, len(grid[i]))
		copy(out[i], grid[i])
	}
	return out
}

// Geometry is the static layout of the grid on a character screen.
// Cell (r, c) covers columns OriginX+c*CellWidth .. +CellWidth-1 and
// rows OriginY+r*CellHeight .. +CellHeight-1.
type Geometry struct {
	OriginX    int
	OriginY    int
	CellWidth  int
	CellHeight int
	Rows       int
	Cols       int
}

// Extent returns the width and height of the grid area.
func (g Geometry) Extent() (int, int) {
	return g.Cols * g.CellWidth, g.Rows * g.CellHeight
}

// Anchor returns the screen position used to draw c.
func (g Geometry) Anchor(c Cell) (int, int) {
	return g.OriginX + c.Col*g.CellWidth, g.OriginY + c.Row*g.CellHeight
}
