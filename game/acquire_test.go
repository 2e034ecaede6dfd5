package game

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termzero/engine"
	"termzero/types"
)

// testGeometry puts cell (r, c) at x = 2+2c, y = 1+r.
func testGeometry(size int) types.Geometry {
	return types.Geometry{OriginX: 2, OriginY: 1, CellWidth: 2, CellHeight: 1, Rows: size, Cols: size}
}

func clickAt(r, c int) Event {
	return Click(2+2*c, 1+r)
}

type recordingView struct {
	calls []string
}

func (v *recordingView) DrawBoard(*types.BoardState) { v.calls = append(v.calls, "DrawBoard") }
func (v *recordingView) DrawSelectedPiece(c types.Cell) {
	v.calls = append(v.calls, "DrawSelectedPiece "+c.String())
}
func (v *recordingView) UnselectPiece()         { v.calls = append(v.calls, "UnselectPiece") }
func (v *recordingView) DrawHints(c types.Cell) { v.calls = append(v.calls, "DrawHints "+c.String()) }
func (v *recordingView) Signal(s Signal)        { v.calls = append(v.calls, "Signal "+s.String()) }
func (v *recordingView) DrawOutcome(*types.BoardState) {
	v.calls = append(v.calls, "DrawOutcome")
}

func (v *recordingView) count(prefix string) int {
	n := 0
	for _, c := range v.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// scriptedEvents replays events and then reports a quit.
type scriptedEvents struct {
	events []Event
}

func (s *scriptedEvents) AwaitEvent() Event {
	if len(s.events) == 0 {
		return Event{Kind: EventQuit}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

func TestTranslatePointer(t *testing.T) {
	g := testGeometry(4)
	tests := []struct {
		name string
		x, y int
		want types.Cell
	}{
		{"origin", 2, 1, types.Cell{Row: 0, Col: 0}},
		{"second column of first cell", 3, 1, types.Cell{Row: 0, Col: 0}},
		{"last cell", 9, 4, types.Cell{Row: 3, Col: 3}},
		{"left of grid", 1, 1, types.OutOfBounds},
		{"one cell left of grid", 0, 1, types.OutOfBounds},
		{"above grid", 2, 0, types.OutOfBounds},
		{"right of grid", 10, 1, types.OutOfBounds},
		{"below grid", 2, 5, types.OutOfBounds},
		{"far negative", -100, -100, types.OutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslatePointer(g, tt.x, tt.y))
		})
	}
}

func TestTranslatePointerBounds(t *testing.T) {
	g := types.Geometry{OriginX: 3, OriginY: 2, CellWidth: 3, CellHeight: 2, Rows: 5, Cols: 7}
	w, h := g.Extent()
	for y := -5; y < g.OriginY+h+5; y++ {
		for x := -5; x < g.OriginX+w+5; x++ {
			c := TranslatePointer(g, x, y)
			inside := x >= g.OriginX && x < g.OriginX+w && y >= g.OriginY && y < g.OriginY+h
			if inside {
				require.True(t, c.In(g.Rows, g.Cols), "(%d,%d) -> %s", x, y, c)
			} else {
				require.Equal(t, types.OutOfBounds, c, "(%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, types.OutOfBounds, TranslatePointer(types.Geometry{Rows: 3, Cols: 3}, 0, 0))
}

func newAtaxxAcquirer(board engine.Board, events ...Event) (*Acquirer, *recordingView) {
	view := &recordingView{}
	a := NewAcquirer(board, types.ShapeTransfer, testGeometry(board.Size()), &scriptedEvents{events: events}, view)
	return a, view
}

func TestTransferFirstClickOnNonOwnedCell(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	for _, c := range []types.Cell{{Row: 1, Col: 1}, {Row: 0, Col: 3}} {
		t.Run(c.String(), func(t *testing.T) {
			a, view := newAtaxxAcquirer(board)
			state := a.Handle(clickAt(c.Row, c.Col))

			assert.Equal(t, AwaitingFirstSelection, state)
			assert.Equal(t, []string{"Signal Invalid Position"}, view.calls)
			_, ok := a.Origin()
			assert.False(t, ok)
		})
	}
}

func TestTransferIllegalPairResetsSelection(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	a, view := newAtaxxAcquirer(board)

	require.Equal(t, AwaitingSecondSelection, a.Handle(clickAt(0, 0)))
	origin, ok := a.Origin()
	require.True(t, ok)
	assert.Equal(t, types.Cell{Row: 0, Col: 0}, origin)

	// (0,3) is three columns away.
	state := a.Handle(clickAt(0, 3))
	assert.Equal(t, AwaitingFirstSelection, state)
	_, ok = a.Origin()
	assert.False(t, ok)
	assert.Equal(t, []string{
		"DrawSelectedPiece (0,0)",
		"UnselectPiece",
		"Signal Invalid Move",
	}, view.calls)
	assert.Empty(t, board.History())
}

func TestTransferLegalPair(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	a, _ := newAtaxxAcquirer(board, clickAt(0, 0), clickAt(0, 1))

	m, err := a.Acquire()
	require.NoError(t, err)
	assert.Equal(t, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 0, Col: 1}), m)
	assert.Equal(t, MoveReady, a.State())
	assert.Empty(t, board.History(), "acquisition never mutates the board")
}

func TestOutOfBoundsClickKeepsState(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	a, view := newAtaxxAcquirer(board)

	assert.Equal(t, AwaitingFirstSelection, a.Handle(Click(0, 0)))
	a.Handle(clickAt(0, 0))
	assert.Equal(t, AwaitingSecondSelection, a.Handle(Click(50, 50)))
	_, ok := a.Origin()
	assert.True(t, ok, "origin survives an out-of-bounds click")
	assert.Equal(t, 2, view.count("Signal Invalid Input"))
}

func TestHoverDrawsHints(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	a, view := newAtaxxAcquirer(board)

	assert.Equal(t, AwaitingFirstSelection, a.Handle(Hover(4, 2)))
	assert.Equal(t, AwaitingFirstSelection, a.Handle(Hover(0, 0)))
	assert.Equal(t, []string{"DrawHints (1,1)", "DrawHints (-1,-1)"}, view.calls)
}

func TestPlacementClick(t *testing.T) {
	board := engine.NewGoBoard(9, 6.5)
	view := &recordingView{}
	a := NewAcquirer(board, types.ShapePlacement, testGeometry(9), &scriptedEvents{events: []Event{clickAt(4, 4)}}, view)

	m, err := a.Acquire()
	require.NoError(t, err)
	assert.Equal(t, types.PlaceAt(4, 4), m)
	assert.Empty(t, view.calls)
}

func TestPassKey(t *testing.T) {
	goBoard := engine.NewGoBoard(9, 6.5)
	a := NewAcquirer(goBoard, types.ShapePlacement, testGeometry(9), &scriptedEvents{}, &recordingView{})
	assert.Equal(t, MoveReady, a.Handle(Event{Kind: EventPass}))
	m, ok := a.Move()
	require.True(t, ok)
	assert.Equal(t, types.Pass, m.Kind)

	ataxx, view := newAtaxxAcquirer(engine.NewAtaxxBoard(4))
	assert.Equal(t, AwaitingFirstSelection, ataxx.Handle(Event{Kind: EventPass}))
	assert.Equal(t, []string{"Signal Invalid Input"}, view.calls)
}

func TestQuitCancels(t *testing.T) {
	for _, events := range [][]Event{
		{{Kind: EventQuit}},
		{clickAt(0, 0), {Kind: EventQuit}},
	} {
		board := engine.NewAtaxxBoard(4)
		a, view := newAtaxxAcquirer(board, events...)
		before := len(events) - 1

		m, err := a.Acquire()
		assert.ErrorIs(t, err, ErrQuit)
		assert.Equal(t, types.Move{}, m)
		assert.Equal(t, Cancelled, a.State())
		assert.Len(t, view.calls, before, "no drawing after quit")

		// Terminal states ignore further input.
		assert.Equal(t, Cancelled, a.Handle(clickAt(0, 0)))
		assert.Len(t, view.calls, before)
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		line    string
		shape   types.MoveShape
		want    types.Move
		wantErr bool
	}{
		{"4 4", types.ShapePlacement, types.PlaceAt(4, 4), false},
		{"  0   1 ", types.ShapePlacement, types.PlaceAt(0, 1), false},
		{"pass", types.ShapePlacement, types.PassMove(), false},
		{"0 0 0 1", types.ShapeTransfer, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 0, Col: 1}), false},
		{"-1 9", types.ShapePlacement, types.PlaceAt(-1, 9), false},
		{"0 0", types.ShapeTransfer, types.Move{}, true},
		{"0 0 0 1", types.ShapePlacement, types.Move{}, true},
		{"a b", types.ShapePlacement, types.Move{}, true},
		{"pass", types.ShapeTransfer, types.Move{}, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.line), func(t *testing.T) {
			m, err := ParseMove(tt.line, tt.shape)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestTextSource(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	view := &recordingView{}
	var prompt strings.Builder
	src := NewTextSource(strings.NewReader("garbage\n\n0 0 0 1\n"), &prompt, view)

	m, err := src.Propose(context.Background(), board)
	require.NoError(t, err)
	assert.Equal(t, types.TransferFrom(types.Cell{Row: 0, Col: 0}, types.Cell{Row: 0, Col: 1}), m)
	assert.Equal(t, []string{"Signal Invalid Input"}, view.calls)
	assert.Contains(t, prompt.String(), "Move: ")

	_, err = src.Propose(context.Background(), board)
	assert.ErrorIs(t, err, ErrQuit, "end of input quits")

	src = NewTextSource(strings.NewReader("quit\n"), nil, view)
	_, err = src.Propose(context.Background(), board)
	assert.ErrorIs(t, err, ErrQuit)
}
