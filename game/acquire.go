package game

import (
	"termzero/types"
)

// AcquireState is the state of one interactive move acquisition.
type AcquireState int8

const (
	AwaitingFirstSelection AcquireState = iota
	AwaitingSecondSelection
	MoveReady
	Cancelled
)

func (s AcquireState) String() string {
	switch s {
	case AwaitingFirstSelection:
		return "awaiting first selection"
	case AwaitingSecondSelection:
		return "awaiting second selection"
	case MoveReady:
		return "move ready"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal reports whether the acquisition is over.
func (s AcquireState) Terminal() bool {
	return s == MoveReady || s == Cancelled
}

// selector holds the rules that differ between placement and transfer games.
type selector interface {
	selectCell(a *Acquirer, c types.Cell)
	pass(a *Acquirer)
}

func selectorFor(shape types.MoveShape) selector {
	if shape == types.ShapeTransfer {
		return transferSelector{}
	}
	return placementSelector{}
}

type placementSelector struct{}

func (placementSelector) selectCell(a *Acquirer, c types.Cell) {
	a.ready(types.PlaceAt(c.Row, c.Col))
}

func (placementSelector) pass(a *Acquirer) {
	a.ready(types.PassMove())
}

type transferSelector struct{}

func (transferSelector) selectCell(a *Acquirer, c types.Cell) {
	if a.origin == nil {
		if !a.owned(c) {
			a.view.Signal(SignalInvalidPosition)
			return
		}
		origin := c
		a.origin = &origin
		a.view.DrawSelectedPiece(c)
		a.state = AwaitingSecondSelection
		return
	}

	from := *a.origin
	m := types.TransferFrom(from, c)
	if !a.owned(from) || !a.board.ValidMove(m) {
		a.reset()
		a.view.Signal(SignalInvalidMove)
		return
	}
	a.ready(m)
}

func (transferSelector) pass(a *Acquirer) {
	a.view.Signal(SignalInvalidInput)
}

// Acquirer assembles one move from pointer events for the side to move.
// Create a new one for every human turn.
type Acquirer struct {
	board  Referee
	geom   types.Geometry
	events EventSource
	view   View
	sel    selector

	state  AcquireState
	origin *types.Cell
	move   types.Move
}

func NewAcquirer(board Referee, shape types.MoveShape, geom types.Geometry, events EventSource, view View) *Acquirer {
	return &Acquirer{
		board:  board,
		geom:   geom,
		events: events,
		view:   view,
		sel:    selectorFor(shape),
		state:  AwaitingFirstSelection,
	}
}

func (a *Acquirer) State() AcquireState {
	return a.state
}

// Origin returns the pending transfer origin, if one is selected.
func (a *Acquirer) Origin() (types.Cell, bool) {
	if a.origin == nil {
		return types.OutOfBounds, false
	}
	return *a.origin, true
}

// Move returns the assembled move once the state is MoveReady.
func (a *Acquirer) Move() (types.Move, bool) {
	return a.move, a.state == MoveReady
}

// Handle applies one event and returns the resulting state.
// Events after a terminal state are ignored.
func (a *Acquirer) Handle(ev Event) AcquireState {
	if a.state.Terminal() {
		return a.state
	}
	switch ev.Kind {
	case EventQuit:
		a.origin = nil
		a.state = Cancelled
	case EventPass:
		a.sel.pass(a)
	case EventHover:
		a.view.DrawHints(TranslatePointer(a.geom, ev.X, ev.Y))
	case EventClick:
		c := TranslatePointer(a.geom, ev.X, ev.Y)
		if c == types.OutOfBounds {
			a.view.Signal(SignalInvalidInput)
			return a.state
		}
		a.sel.selectCell(a, c)
	}
	return a.state
}

// Acquire blocks on the event source until a move is assembled or the
// operator quits, in which case it returns ErrQuit.
func (a *Acquirer) Acquire() (types.Move, error) {
	for !a.state.Terminal() {
		a.Handle(a.events.AwaitEvent())
	}
	if a.state == Cancelled {
		return types.Move{}, ErrQuit
	}
	return a.move, nil
}

func (a *Acquirer) owned(c types.Cell) bool {
	return a.board.State().At(c) == a.board.Player()
}

func (a *Acquirer) ready(m types.Move) {
	a.move = m
	a.origin = nil
	a.state = MoveReady
}

func (a *Acquirer) reset() {
	a.origin = nil
	a.view.UnselectPiece()
	a.state = AwaitingFirstSelection
}
