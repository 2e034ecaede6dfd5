package game

import (
	"context"
	"fmt"

	"termzero/engine"
	"termzero/search"
	"termzero/types"
)

// Searcher runs a tree search from each root and returns one result per root.
type Searcher interface {
	Search(ctx context.Context, roots []engine.Board, iterations int, test bool) ([]search.Result, error)
}

// SearchPolicy proposes the most visited move of a search from the current
// position. It searches a clone, never the live board.
type SearchPolicy struct {
	searcher   Searcher
	iterations int
}

func NewSearchPolicy(searcher Searcher, iterations int) *SearchPolicy {
	return &SearchPolicy{searcher: searcher, iterations: iterations}
}

func (p *SearchPolicy) Propose(ctx context.Context, board engine.Board) (types.Move, error) {
	roots := []engine.Board{board.Clone()}
	results, err := p.searcher.Search(ctx, roots, p.iterations, true)
	if err != nil {
		return types.Move{}, fmt.Errorf("search failed: %w", err)
	}
	if len(results) != 1 {
		return types.Move{}, fmt.Errorf("search returned %d results for one root", len(results))
	}

	res := results[0]
	action := argmax(res.Probs)
	if action < 0 || res.Root == nil || res.Root.Child(action) == nil {
		return types.Move{}, fmt.Errorf("%w: no move for action %d", ErrPolicyContract, action)
	}
	return res.Root.Child(action).Move, nil
}

// argmax returns the index of the largest value, preferring the lowest index
// on ties, or -1 for an empty slice.
func argmax(probs []float64) int {
	best := -1
	for i, p := range probs {
		if best < 0 || p > probs[best] {
			best = i
		}
	}
	return best
}
