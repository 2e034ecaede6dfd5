// Package search implements PUCT Monte Carlo tree search guided by an
// evaluator that returns move priors and a position value.
package search

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"termzero/engine"
	"termzero/log"
)

// Evaluator scores a position. policy is indexed by action and may be nil
// for uniform priors. value is in [-1, 1] for the side to move.
// Evaluate may be called from several goroutines at once.
type Evaluator interface {
	Evaluate(board engine.Board) (policy []float64, value float64)
}

// Uniform is an Evaluator with flat priors and a neutral value.
type Uniform struct{}

func (Uniform) Evaluate(engine.Board) ([]float64, float64) { return nil, 0 }

type Config struct {
	CPuct            float64
	DirichletAlpha   float64
	DirichletEpsilon float64
	// Workers bounds the number of roots searched at once.
	Workers int
	// Seed for the noise generators. Zero seeds from the clock.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		CPuct:            2,
		DirichletAlpha:   0.3,
		DirichletEpsilon: 0.25,
		Workers:          runtime.NumCPU(),
	}
}

// Result is the outcome of searching one root.
type Result struct {
	// Probs holds the root visit distribution over the full action space.
	Probs []float64
	Root  *Node
}

type MCTS struct {
	eval Evaluator
	cfg  Config
}

func New(eval Evaluator, cfg Config) *MCTS {
	if eval == nil {
		eval = Uniform{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &MCTS{eval: eval, cfg: cfg}
}

// Search runs iterations simulations from every root, one goroutine per root.
// The roots are owned by the search for its duration and should be clones.
// With test set, no exploration noise is added at the roots.
func (m *MCTS) Search(ctx context.Context, roots []engine.Board, iterations int, test bool) ([]Result, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}
	seed := m.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]Result, len(roots))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)
	for i, board := range roots {
		i, board := i, board
		rng := rand.New(rand.NewSource(seed + int64(i)))
		g.Go(func() error {
			res, err := m.searchRoot(ctx, board, iterations, test, rng)
			if err != nil {
				return fmt.Errorf("root %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *MCTS) searchRoot(ctx context.Context, board engine.Board, iterations int, test bool, rng *rand.Rand) (Result, error) {
	root := newRoot(board)
	if !board.Finished() {
		policy, _ := m.eval.Evaluate(board)
		root.expand(policy)
		if !test {
			m.addNoise(root, rng)
		}
	}

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		m.simulate(root)
	}

	probs := make([]float64, board.ActionSize())
	total := 0
	for _, c := range root.children {
		total += c.visits
	}
	if total > 0 {
		for _, c := range root.children {
			probs[c.action] = float64(c.visits) / float64(total)
		}
	}
	log.Trace("searched %d iterations, root value %.3f", iterations, root.Value())
	return Result{Probs: probs, Root: root}, nil
}

// simulate walks from the root to a leaf, evaluates it and backs the value up.
func (m *MCTS) simulate(root *Node) {
	node := root
	for node.expanded && len(node.children) > 0 {
		node = node.selectChild(m.cfg.CPuct)
	}

	b := node.position()
	var value float64
	if b.Finished() {
		value = terminalValue(b)
		node.expanded = true
	} else {
		var policy []float64
		policy, value = m.eval.Evaluate(b)
		node.expand(policy)
	}
	node.backup(value)
}

func (m *MCTS) addNoise(root *Node, rng *rand.Rand) {
	if len(root.children) == 0 {
		return
	}
	noise := dirichlet(rng, m.cfg.DirichletAlpha, len(root.children))
	eps := m.cfg.DirichletEpsilon
	for i, c := range root.children {
		c.prior = (1-eps)*c.prior + eps*noise[i]
	}
}
