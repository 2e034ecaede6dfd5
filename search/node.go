package search

import (
	"math"
	"sort"

	"termzero/engine"
	"termzero/types"
)

// Node is one position in the search tree. Its value statistics are kept
// from the point of view of the player who made Move.
type Node struct {
	// Move is the move that led from the parent to this node.
	Move types.Move

	board    engine.Board
	parent   *Node
	action   int
	prior    float64
	visits   int
	valueSum float64

	expanded bool
	children []*Node
	byAction map[int]*Node
}

func newRoot(board engine.Board) *Node {
	return &Node{board: board, action: -1}
}

// Child returns the child reached by action, or nil.
func (n *Node) Child(action int) *Node {
	return n.byAction[action]
}

// Children returns the expanded children ordered by action index.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Action() int    { return n.action }
func (n *Node) Prior() float64 { return n.prior }
func (n *Node) Visits() int    { return n.visits }

// Value is the mean backed-up value, or 0 before the first visit.
func (n *Node) Value() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.valueSum / float64(n.visits)
}

// position materialises the child board on first use.
func (n *Node) position() engine.Board {
	if n.board == nil {
		b := n.parent.board.Clone()
		b.Move(n.Move)
		b.NextPlayer()
		b.CheckFinish()
		n.board = b
	}
	return n.board
}

// expand creates one child per legal move with its prior taken from policy.
// Priors are masked to legal moves and renormalised; when the policy puts no
// mass on any legal move they fall back to uniform.
func (n *Node) expand(policy []float64) {
	n.expanded = true
	moves := n.board.LegalMoves()
	if len(moves) == 0 {
		return
	}

	n.children = make([]*Node, 0, len(moves))
	n.byAction = make(map[int]*Node, len(moves))
	total := 0.0
	for _, m := range moves {
		a := n.board.EncodeMove(m)
		p := 0.0
		if a >= 0 && a < len(policy) && policy[a] > 0 && !math.IsNaN(policy[a]) {
			p = policy[a]
		}
		child := &Node{Move: m, parent: n, action: a, prior: p}
		n.children = append(n.children, child)
		n.byAction[a] = child
		total += p
	}
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].action < n.children[j].action
	})

	for _, c := range n.children {
		if total > 0 {
			c.prior /= total
		} else {
			c.prior = 1 / float64(len(n.children))
		}
	}
}

// selectChild picks the child with the highest PUCT score. Ties go to the
// lowest action index.
func (n *Node) selectChild(cpuct float64) *Node {
	sqrtN := math.Sqrt(math.Max(1, float64(n.visits)))
	var best *Node
	bestScore := math.Inf(-1)
	for _, c := range n.children {
		u := cpuct * c.prior * sqrtN / float64(1+c.visits)
		score := c.Value() + u
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// backup propagates value, seen from the side to move at n, up to the root.
func (n *Node) backup(value float64) {
	for node := n; node != nil; node = node.parent {
		value = -value
		node.visits++
		node.valueSum += value
	}
}

// terminalValue scores a finished position for the side to move.
func terminalValue(b engine.Board) float64 {
	switch winner := b.Winner().Winner(); winner {
	case types.Empty:
		return 0
	case b.Player():
		return 1
	default:
		return -1
	}
}
