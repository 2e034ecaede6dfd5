package store

import (
	"context"

	"termzero/types"
)

// ResultRecorder saves the result of one game when it finishes.
// It implements game.Recorder.
type ResultRecorder struct {
	ctx    context.Context
	store  *SQLiteStore
	result Result
}

// NewResultRecorder prepares a recorder for a game between playerOne and
// playerTwo. record is the SGF path written alongside, if any.
func NewResultRecorder(ctx context.Context, s *SQLiteStore, v types.Variant, size int, playerOne, playerTwo, record string) *ResultRecorder {
	return &ResultRecorder{
		ctx:   ctx,
		store: s,
		result: Result{
			Variant:   v,
			BoardSize: size,
			PlayerOne: playerOne,
			PlayerTwo: playerTwo,
			Record:    record,
		},
	}
}

func (r *ResultRecorder) MoveApplied(_ types.Player, _ types.Move, state *types.BoardState) error {
	r.result.Moves = state.MoveNumber
	return nil
}

func (r *ResultRecorder) Finished(state *types.BoardState) error {
	r.result.Outcome = state.Outcome
	r.result.Moves = state.MoveNumber
	r.result.Score = [2]float64{state.Score[types.PlayerOne], state.Score[types.PlayerTwo]}
	return r.store.SaveResult(r.ctx, &r.result)
}

// Result returns the result as saved, including its assigned ID.
func (r *ResultRecorder) Result() Result {
	return r.result
}
