package engine

import (
	"termzero/types"
)

// AtaxxBoard implements Board for Ataxx.
// A transfer to an empty cell one step away clones the piece, two steps away jumps it.
type AtaxxBoard struct {
	size    int
	grid    [][]types.Player
	player  types.Player
	outcome types.Outcome
	final   [3]int // tallies the outcome was decided on
	history []types.Move
	last    *types.Move
}

// NewAtaxxBoard creates a size x size board in its starting position.
func NewAtaxxBoard(size int) *AtaxxBoard {
	b := &AtaxxBoard{size: size}
	b.Start()
	return b
}

func (b *AtaxxBoard) Start() {
	n := b.size
	b.grid = types.NewGrid(n, n)
	b.grid[0][0] = types.PlayerOne
	b.grid[n-1][n-1] = types.PlayerOne
	b.grid[0][n-1] = types.PlayerTwo
	b.grid[n-1][0] = types.PlayerTwo
	b.player = types.PlayerOne
	b.outcome = types.InProgress
	b.final = [3]int{}
	b.history = nil
	b.last = nil
}

func (b *AtaxxBoard) Size() int              { return b.size }
func (b *AtaxxBoard) Variant() types.Variant { return types.Ataxx }
func (b *AtaxxBoard) Player() types.Player   { return b.player }
func (b *AtaxxBoard) Winner() types.Outcome  { return b.outcome }
func (b *AtaxxBoard) Finished() bool         { return b.outcome.Terminal() }

func (b *AtaxxBoard) ValidMove(m types.Move) bool {
	if b.Finished() || m.Kind != types.Transfer || !m.WellFormed(b.size, b.size) {
		return false
	}
	if b.grid[m.From.Row][m.From.Col] != b.player {
		return false
	}
	if b.grid[m.To.Row][m.To.Col] != types.Empty {
		return false
	}
	d := distance(m.From, m.To)
	return d == 1 || d == 2
}

func (b *AtaxxBoard) Move(m types.Move) {
	if distance(m.From, m.To) == 2 {
		b.grid[m.From.Row][m.From.Col] = types.Empty
	}
	b.grid[m.To.Row][m.To.Col] = b.player
	opponent := b.player.Opponent()
	b.eachNeighbour(m.To, 1, func(c types.Cell) {
		if b.grid[c.Row][c.Col] == opponent {
			b.grid[c.Row][c.Col] = b.player
		}
	})
	b.history = append(b.history, m)
	last := m
	b.last = &last
}

func (b *AtaxxBoard) NextPlayer() {
	b.player = b.player.Opponent()
}

// CheckFinish ends the game when the board is full, a side has been wiped out,
// or the side to move is blocked. A blocked side forfeits the empty cells.
func (b *AtaxxBoard) CheckFinish() {
	if b.Finished() {
		return
	}
	count := b.count()
	switch {
	case count[types.Empty] == 0, count[types.PlayerOne] == 0, count[types.PlayerTwo] == 0:
	case len(b.LegalMoves()) == 0:
		count[b.player.Opponent()] += count[types.Empty]
	default:
		return
	}
	count[types.Empty] = 0
	b.final = count
	switch {
	case count[types.PlayerOne] > count[types.PlayerTwo]:
		b.outcome = types.PlayerOneWins
	case count[types.PlayerTwo] > count[types.PlayerOne]:
		b.outcome = types.PlayerTwoWins
	default:
		b.outcome = types.Draw
	}
}

func (b *AtaxxBoard) LegalMoves() []types.Move {
	if b.Finished() {
		return nil
	}
	var moves []types.Move
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if b.grid[r][c] != b.player {
				continue
			}
			from := types.Cell{Row: r, Col: c}
			b.eachNeighbour(from, 2, func(to types.Cell) {
				if b.grid[to.Row][to.Col] == types.Empty {
					moves = append(moves, types.TransferFrom(from, to))
				}
			})
		}
	}
	return moves
}

// State reports piece counts as the score, or the final tallies, including
// forfeited empties, once the game is over.
func (b *AtaxxBoard) State() *types.BoardState {
	count := b.count()
	if b.Finished() {
		count = b.final
	}
	state := &types.BoardState{
		Variant:      types.Ataxx,
		MoveNumber:   len(b.history),
		PlayerToMove: b.player,
		Board:        types.CopyGrid(b.grid),
		Outcome:      b.outcome,
	}
	state.Score[types.PlayerOne] = float64(count[types.PlayerOne])
	state.Score[types.PlayerTwo] = float64(count[types.PlayerTwo])
	if b.last != nil {
		last := *b.last
		state.LastMove = &last
	}
	return state
}

func (b *AtaxxBoard) History() []types.Move {
	out := make([]types.Move, len(b.history))
	copy(out, b.history)
	return out
}

func (b *AtaxxBoard) Clone() Board {
	c := *b
	c.grid = types.CopyGrid(b.grid)
	c.history = b.History()
	if b.last != nil {
		last := *b.last
		c.last = &last
	}
	return &c
}

// ActionSize covers every (origin, destination) pair: size^4.
func (b *AtaxxBoard) ActionSize() int {
	cells := b.size * b.size
	return cells * cells
}

func (b *AtaxxBoard) EncodeMove(m types.Move) int {
	cells := b.size * b.size
	return (m.From.Row*b.size+m.From.Col)*cells + m.To.Row*b.size + m.To.Col
}

func (b *AtaxxBoard) DecodeMove(action int) types.Move {
	cells := b.size * b.size
	from, to := action/cells, action%cells
	return types.TransferFrom(
		types.Cell{Row: from / b.size, Col: from % b.size},
		types.Cell{Row: to / b.size, Col: to % b.size},
	)
}

func (b *AtaxxBoard) count() [3]int {
	var count [3]int
	for _, row := range b.grid {
		for _, p := range row {
			count[p]++
		}
	}
	return count
}

// eachNeighbour calls fn for every in-bounds cell within Chebyshev distance
// radius of c, excluding c itself.
func (b *AtaxxBoard) eachNeighbour(c types.Cell, radius int, fn func(types.Cell)) {
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := types.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if n.In(b.size, b.size) {
				fn(n)
			}
		}
	}
}

// distance is the Chebyshev distance between two cells.
func distance(a, b types.Cell) int {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}
