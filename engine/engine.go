// Package engine defines the board collaborator used by the game loop.
package engine

import (
	"fmt"

	"termzero/types"
)

// Board is the authoritative rule engine for one game.
// The game loop is the only writer; renderers and policies read snapshots.
type Board interface {
	// Start resets the board to the initial position.
	Start()

	// ValidMove reports whether m is legal for the side to move.
	ValidMove(m types.Move) bool

	// Move applies m. Callers check ValidMove first.
	Move(m types.Move)

	// NextPlayer hands the turn to the other side.
	NextPlayer()

	// CheckFinish updates the outcome after a move.
	CheckFinish()

	// Finished returns true once the outcome is terminal.
	Finished() bool

	// Winner returns the current outcome.
	Winner() types.Outcome

	// Player returns the side to move.
	Player() types.Player

	// State returns a snapshot that is safe to keep.
	State() *types.BoardState

	// LegalMoves lists every legal move for the side to move.
	LegalMoves() []types.Move

	// History returns the moves applied so far, oldest first.
	History() []types.Move

	// Clone returns an independent copy.
	Clone() Board

	Size() int
	Variant() types.Variant

	// ActionSize is the number of distinct action indices.
	ActionSize() int
	EncodeMove(m types.Move) int
	DecodeMove(action int) types.Move
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Variant     types.Variant
	BoardSize   int          // Ataxx 4-8, Go 5-19
	HumanPlayer types.Player // Empty lets the policy play both sides
	Komi        float64      // Go only
	Iterations  int          // search iterations per automated move
	ModelPath   string       // go-deep weights, empty for fresh networks
	Policy      string       // "mcts" or "gnugo"
	EnginePath  string       // GTP engine binary for the gnugo policy
	EngineLevel int
	Headless    bool
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Variant:     types.Ataxx,
		BoardSize:   4,
		HumanPlayer: types.PlayerOne,
		Komi:        6.5,
		Iterations:  50,
		Policy:      "mcts",
		EnginePath:  "gnugo",
		EngineLevel: 5,
	}
}

// Validate checks the board size against the variant limits.
func (c GameConfig) Validate() error {
	lo, hi := SizeLimits(c.Variant)
	if c.BoardSize < lo || c.BoardSize > hi {
		return fmt.Errorf("%s board size must be between %d and %d, got %d", c.Variant, lo, hi, c.BoardSize)
	}
	if c.HumanPlayer < types.Empty || c.HumanPlayer > types.PlayerTwo {
		return fmt.Errorf("human player must be 0, 1 or 2, got %d", c.HumanPlayer)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Policy != "mcts" && c.Policy != "gnugo" {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	if c.Policy == "gnugo" && c.Variant != types.Go {
		return fmt.Errorf("the gnugo policy only plays Go")
	}
	return nil
}

// SizeLimits returns the smallest and largest supported board for v.
func SizeLimits(v types.Variant) (int, int) {
	if v == types.Ataxx {
		return 4, 8
	}
	return 5, 19
}
