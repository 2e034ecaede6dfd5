package game

import (
	"context"
	"fmt"

	"termzero/engine"
	"termzero/log"
	"termzero/types"
)

// Seat is whoever moves for one side.
// Moves from a human seat are re-asked when illegal, moves from an automated
// seat must be legal.
type Seat struct {
	Source MoveSource
	Human  bool
}

func HumanSeat(src MoveSource) Seat     { return Seat{Source: src, Human: true} }
func AutomatedSeat(src MoveSource) Seat { return Seat{Source: src} }

// Orchestrator runs one game to completion. It is the only writer of the board.
type Orchestrator struct {
	board     engine.Board
	view      View
	seats     map[types.Player]Seat
	recorders []Recorder
}

func NewOrchestrator(board engine.Board, view View, one, two Seat, recorders ...Recorder) *Orchestrator {
	return &Orchestrator{
		board: board,
		view:  view,
		seats: map[types.Player]Seat{
			types.PlayerOne: one,
			types.PlayerTwo: two,
		},
		recorders: recorders,
	}
}

// Run plays until the board reports a terminal outcome and returns it.
// ErrQuit and ErrPolicyContract end the game early with no further drawing.
func (o *Orchestrator) Run(ctx context.Context) (types.Outcome, error) {
	if o.board.Finished() {
		return o.board.Winner(), nil
	}
	for {
		o.view.DrawBoard(o.board.State())

		player := o.board.Player()
		move, err := o.nextMove(ctx, player)
		if err != nil {
			return types.InProgress, err
		}

		o.board.Move(move)
		o.board.NextPlayer()
		state := o.board.State()
		log.Debug("%s played %s", player, move)
		for _, r := range o.recorders {
			if err := r.MoveApplied(player, move, state); err != nil {
				log.Warn("failed to record move: %v", err)
			}
		}
		o.view.DrawBoard(state)

		o.board.CheckFinish()
		if o.board.Finished() {
			return o.finish(), nil
		}
	}
}

func (o *Orchestrator) nextMove(ctx context.Context, player types.Player) (types.Move, error) {
	seat, ok := o.seats[player]
	if !ok || seat.Source == nil {
		return types.Move{}, fmt.Errorf("no seat for %s", player)
	}
	for {
		if err := ctx.Err(); err != nil {
			return types.Move{}, err
		}
		move, err := seat.Source.Propose(ctx, o.board)
		if err != nil {
			return types.Move{}, err
		}
		if o.board.ValidMove(move) {
			return move, nil
		}
		if !seat.Human {
			log.Error("policy for %s proposed illegal move %s", player, move)
			return types.Move{}, fmt.Errorf("%w: %s proposed %s", ErrPolicyContract, player, move)
		}
		o.view.Signal(SignalInvalidMove)
	}
}

func (o *Orchestrator) finish() types.Outcome {
	state := o.board.State()
	o.view.DrawOutcome(state)
	log.Info("game finished after %d moves: %s", state.MoveNumber, state.Outcome)
	for _, r := range o.recorders {
		if err := r.Finished(state); err != nil {
			log.Warn("failed to record result: %v", err)
		}
	}
	return state.Outcome
}
