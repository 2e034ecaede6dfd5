package search

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termzero/engine"
	"termzero/types"
)

func TestSearchVisitDistribution(t *testing.T) {
	board := engine.NewAtaxxBoard(4)
	m := New(Uniform{}, Config{CPuct: 2, Workers: 2, Seed: 1})

	results, err := m.Search(context.Background(), []engine.Board{board.Clone()}, 64, true)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.Len(t, res.Probs, board.ActionSize())

	legal := map[int]bool{}
	for _, mv := range board.LegalMoves() {
		legal[board.EncodeMove(mv)] = true
	}
	sum := 0.0
	for a, p := range res.Probs {
		if !legal[a] {
			assert.Zero(t, p, "illegal action %d got visits", a)
		}
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for _, c := range res.Root.Children() {
		assert.True(t, board.ValidMove(c.Move), c.Move.String())
		assert.Same(t, c, res.Root.Child(c.Action()))
	}
}

func TestSearchLeavesRootsUntouched(t *testing.T) {
	board := engine.NewGoBoard(5, 0.5)
	root := board.Clone()
	m := New(Uniform{}, Config{CPuct: 2, Workers: 1, Seed: 1})

	_, err := m.Search(context.Background(), []engine.Board{root}, 40, false)
	require.NoError(t, err)
	assert.Empty(t, root.History())
	assert.Equal(t, types.PlayerOne, root.Player())
}

func TestSearchManyRoots(t *testing.T) {
	roots := []engine.Board{
		engine.NewAtaxxBoard(4),
		engine.NewAtaxxBoard(5),
		engine.NewGoBoard(5, 0.5),
	}
	m := New(Uniform{}, Config{CPuct: 2, Workers: 2, Seed: 7})

	results, err := m.Search(context.Background(), roots, 16, false)
	require.NoError(t, err)
	require.Len(t, results, len(roots))
	for i, res := range results {
		assert.Len(t, res.Probs, roots[i].ActionSize())
		assert.Equal(t, 16, res.Root.Visits())
	}
}

func TestSearchErrors(t *testing.T) {
	m := New(nil, DefaultConfig())
	_, err := m.Search(context.Background(), []engine.Board{engine.NewAtaxxBoard(4)}, 0, true)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Search(ctx, []engine.Board{engine.NewAtaxxBoard(4)}, 10, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchIsDeterministicInTestMode(t *testing.T) {
	m := New(Uniform{}, Config{CPuct: 2, Workers: 1, Seed: 3})
	a, err := m.Search(context.Background(), []engine.Board{engine.NewAtaxxBoard(4)}, 50, true)
	require.NoError(t, err)
	b, err := m.Search(context.Background(), []engine.Board{engine.NewAtaxxBoard(4)}, 50, true)
	require.NoError(t, err)
	assert.Equal(t, a[0].Probs, b[0].Probs)
}

func TestBackupAlternatesSign(t *testing.T) {
	root := newRoot(engine.NewAtaxxBoard(4))
	root.expand(nil)
	child := root.children[0]
	child.position()
	child.expand(nil)
	grandchild := child.children[0]

	grandchild.backup(1)

	// Each level stores the value for the player who moved into it.
	assert.Equal(t, -1.0, grandchild.Value())
	assert.Equal(t, 1.0, child.Value())
	assert.Equal(t, -1.0, root.Value())
	assert.Equal(t, 1, root.Visits())
}

func TestExpandMasksAndNormalises(t *testing.T) {
	board := engine.NewGoBoard(5, 0.5)
	board.Move(types.PlaceAt(0, 0))
	board.NextPlayer()

	policy := make([]float64, board.ActionSize())
	policy[0] = 10 // occupied, must be masked
	policy[1] = 3
	policy[2] = 1
	root := newRoot(board)
	root.expand(policy)

	assert.Nil(t, root.Child(0))
	assert.InDelta(t, 0.75, root.Child(1).Prior(), 1e-9)
	assert.InDelta(t, 0.25, root.Child(2).Prior(), 1e-9)
	assert.Zero(t, root.Child(3).Prior())

	root.expand(nil)
	for _, c := range root.Children() {
		assert.InDelta(t, 1/float64(len(root.Children())), c.Prior(), 1e-9)
	}
}

func TestTerminalValue(t *testing.T) {
	board := engine.NewGoBoard(5, 0.5)
	board.Move(types.PlaceAt(2, 2))
	board.NextPlayer()
	for i := 0; i < 2; i++ {
		board.Move(types.PassMove())
		board.NextPlayer()
		board.CheckFinish()
	}
	require.Equal(t, types.PlayerOneWins, board.Winner())
	// Player two is to move after the final pass and has lost.
	require.Equal(t, types.PlayerTwo, board.Player())
	assert.Equal(t, -1.0, terminalValue(board))

	board.NextPlayer()
	assert.Equal(t, 1.0, terminalValue(board))
}

func TestDirichlet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, alpha := range []float64{0.03, 0.3, 2} {
		sample := dirichlet(rng, alpha, 20)
		sum := 0.0
		for _, x := range sample {
			assert.GreaterOrEqual(t, x, 0.0)
			sum += x
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}
