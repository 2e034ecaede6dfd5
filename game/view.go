// Package game runs a two-player board game to completion, alternating
// between a human operator and an automated policy.
package game

import (
	"context"
	"errors"

	"termzero/engine"
	"termzero/types"
)

var (
	// ErrQuit is returned when the operator asks to leave the game.
	ErrQuit = errors.New("game: quit requested")
	// ErrPolicyContract is returned when an automated policy proposes a move
	// the board rejects. It is fatal for the run.
	ErrPolicyContract = errors.New("game: policy proposed an illegal move")
)

// EventKind distinguishes the input events the game reacts to.
type EventKind int8

const (
	EventClick EventKind = iota
	EventHover
	EventPass
	EventQuit
)

// Event is one input event in screen coordinates.
type Event struct {
	Kind EventKind
	X    int
	Y    int
}

func Click(x, y int) Event { return Event{Kind: EventClick, X: x, Y: y} }
func Hover(x, y int) Event { return Event{Kind: EventHover, X: x, Y: y} }

// EventSource blocks until the next input event is available.
type EventSource interface {
	AwaitEvent() Event
}

// Signal is feedback for the operator about rejected input.
type Signal int8

const (
	// SignalInvalidInput means the input could not be read as a cell or move.
	SignalInvalidInput Signal = iota
	// SignalInvalidPosition means the selected origin is not the player's piece.
	SignalInvalidPosition
	// SignalInvalidMove means the board rejected the move.
	SignalInvalidMove
)

func (s Signal) String() string {
	switch s {
	case SignalInvalidInput:
		return "Invalid Input"
	case SignalInvalidPosition:
		return "Invalid Position"
	case SignalInvalidMove:
		return "Invalid Move"
	}
	return "unknown signal"
}

// View observes the game. It holds no game logic.
type View interface {
	DrawBoard(state *types.BoardState)
	DrawSelectedPiece(c types.Cell)
	UnselectPiece()
	// DrawHints highlights candidate cells around c. c may be types.OutOfBounds.
	DrawHints(c types.Cell)
	Signal(s Signal)
	DrawOutcome(state *types.BoardState)
}

// Referee is the part of the board the move acquisition reads.
type Referee interface {
	ValidMove(m types.Move) bool
	Player() types.Player
	State() *types.BoardState
}

// MoveSource proposes the next move for the side to move.
// It must not mutate board.
type MoveSource interface {
	Propose(ctx context.Context, board engine.Board) (types.Move, error)
}

// MoveSourceFunc adapts a function to MoveSource.
type MoveSourceFunc func(ctx context.Context, board engine.Board) (types.Move, error)

func (f MoveSourceFunc) Propose(ctx context.Context, board engine.Board) (types.Move, error) {
	return f(ctx, board)
}

// Recorder is notified of every applied move and of the final outcome.
type Recorder interface {
	MoveApplied(player types.Player, m types.Move, state *types.BoardState) error
	Finished(state *types.BoardState) error
}
