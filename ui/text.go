package ui

import (
	"fmt"
	"io"
	"strings"

	"termzero/game"
	"termzero/types"
)

// TextView prints boards as plain text, for headless play. Rows and columns
// are labelled with the indices the text move source expects.
type TextView struct {
	w io.Writer
}

func NewTextView(w io.Writer) *TextView {
	return &TextView{w: w}
}

func pieceRune(v types.Variant, p types.Player) rune {
	switch p {
	case types.PlayerOne:
		if v == types.Go {
			return 'X'
		}
		return 'R'
	case types.PlayerTwo:
		if v == types.Go {
			return 'O'
		}
		return 'B'
	}
	return '.'
}

func (t *TextView) DrawBoard(state *types.BoardState) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %dx%d  move %d", state.Variant, state.Height(), state.Width(), state.MoveNumber)
	if !state.Finished() {
		fmt.Fprintf(&b, "  %s (%c) to move", state.PlayerToMove, pieceRune(state.Variant, state.PlayerToMove))
	}
	b.WriteString("\n   ")
	for c := 0; c < state.Width(); c++ {
		fmt.Fprintf(&b, "%2d", c)
	}
	b.WriteString("\n")
	for r := 0; r < state.Height(); r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for c := 0; c < state.Width(); c++ {
			fmt.Fprintf(&b, " %c", pieceRune(state.Variant, state.Board[r][c]))
		}
		b.WriteString("\n")
	}
	io.WriteString(t.w, b.String())
}

func (t *TextView) DrawSelectedPiece(c types.Cell) {
	fmt.Fprintf(t.w, "selected %d %d\n", c.Row, c.Col)
}

func (t *TextView) UnselectPiece() {}

func (t *TextView) DrawHints(types.Cell) {}

func (t *TextView) Signal(sig game.Signal) {
	fmt.Fprintln(t.w, sig)
}

func (t *TextView) DrawOutcome(state *types.BoardState) {
	fmt.Fprintf(t.w, "Game over: %s (%g - %g)\n", state.Outcome, state.Score[types.PlayerOne], state.Score[types.PlayerTwo])
}
