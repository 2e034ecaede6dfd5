package engine

import (
	"termzero/types"
)

var orthogonal = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// GoBoard implements Board for Go with area scoring and simple ko.
type GoBoard struct {
	size    int
	komi    float64
	grid    [][]types.Player
	prev    [][]types.Player // position before the last move, for ko
	player  types.Player
	passes  int
	outcome types.Outcome
	history []types.Move
	last    *types.Move
}

// NewGoBoard creates an empty size x size board. Komi is credited to player two.
func NewGoBoard(size int, komi float64) *GoBoard {
	b := &GoBoard{size: size, komi: komi}
	b.Start()
	return b
}

func (b *GoBoard) Start() {
	b.grid = types.NewGrid(b.size, b.size)
	b.prev = nil
	b.player = types.PlayerOne
	b.passes = 0
	b.outcome = types.InProgress
	b.history = nil
	b.last = nil
}

func (b *GoBoard) Size() int              { return b.size }
func (b *GoBoard) Variant() types.Variant { return types.Go }
func (b *GoBoard) Player() types.Player   { return b.player }
func (b *GoBoard) Winner() types.Outcome  { return b.outcome }
func (b *GoBoard) Finished() bool         { return b.outcome.Terminal() }

// maxMoves bounds games where neither side passes.
func (b *GoBoard) maxMoves() int {
	return 3 * b.size * b.size
}

func (b *GoBoard) ValidMove(m types.Move) bool {
	if b.Finished() {
		return false
	}
	switch m.Kind {
	case types.Pass:
		return true
	case types.Placement:
	default:
		return false
	}
	if !m.To.In(b.size, b.size) || b.grid[m.To.Row][m.To.Col] != types.Empty {
		return false
	}
	next := types.CopyGrid(b.grid)
	next[m.To.Row][m.To.Col] = b.player
	removeCaptures(next, b.size, m.To.Col, m.To.Row, b.player)
	if !hasLiberties(next, b.size, m.To.Col, m.To.Row, b.player) {
		return false // suicide
	}
	if b.prev != nil && sameGrid(next, b.prev) {
		return false // ko
	}
	return true
}

func (b *GoBoard) Move(m types.Move) {
	b.history = append(b.history, m)
	last := m
	b.last = &last
	if m.Kind == types.Pass {
		b.passes++
		b.prev = nil
		return
	}
	b.passes = 0
	b.prev = types.CopyGrid(b.grid)
	b.grid[m.To.Row][m.To.Col] = b.player
	removeCaptures(b.grid, b.size, m.To.Col, m.To.Row, b.player)
}

func (b *GoBoard) NextPlayer() {
	b.player = b.player.Opponent()
}

// CheckFinish ends the game after two consecutive passes or when the move
// limit is reached.
func (b *GoBoard) CheckFinish() {
	if b.Finished() {
		return
	}
	if b.passes < 2 && len(b.history) < b.maxMoves() {
		return
	}
	score := b.score()
	switch {
	case score[types.PlayerOne] > score[types.PlayerTwo]:
		b.outcome = types.PlayerOneWins
	case score[types.PlayerTwo] > score[types.PlayerOne]:
		b.outcome = types.PlayerTwoWins
	default:
		b.outcome = types.Draw
	}
}

func (b *GoBoard) LegalMoves() []types.Move {
	if b.Finished() {
		return nil
	}
	var moves []types.Move
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			m := types.PlaceAt(r, c)
			if b.ValidMove(m) {
				moves = append(moves, m)
			}
		}
	}
	return append(moves, types.PassMove())
}

func (b *GoBoard) State() *types.BoardState {
	state := &types.BoardState{
		Variant:      types.Go,
		MoveNumber:   len(b.history),
		PlayerToMove: b.player,
		Board:        types.CopyGrid(b.grid),
		Outcome:      b.outcome,
		Score:        b.score(),
	}
	if b.last != nil {
		last := *b.last
		state.LastMove = &last
	}
	return state
}

func (b *GoBoard) History() []types.Move {
	out := make([]types.Move, len(b.history))
	copy(out, b.history)
	return out
}

func (b *GoBoard) Clone() Board {
	c := *b
	c.grid = types.CopyGrid(b.grid)
	if b.prev != nil {
		c.prev = types.CopyGrid(b.prev)
	}
	c.history = b.History()
	if b.last != nil {
		last := *b.last
		c.last = &last
	}
	return &c
}

// ActionSize is one action per point plus pass.
func (b *GoBoard) ActionSize() int {
	return b.size*b.size + 1
}

func (b *GoBoard) EncodeMove(m types.Move) int {
	if m.Kind == types.Pass {
		return b.size * b.size
	}
	return m.To.Row*b.size + m.To.Col
}

func (b *GoBoard) DecodeMove(action int) types.Move {
	if action == b.size*b.size {
		return types.PassMove()
	}
	return types.PlaceAt(action/b.size, action%b.size)
}

// score counts stones plus empty regions bordered by a single colour.
// Komi goes to player two.
func (b *GoBoard) score() [3]float64 {
	var score [3]float64
	visited := make([][]bool, b.size)
	for i := range visited {
		visited[i] = make([]bool, b.size)
	}
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			p := b.grid[y][x]
			if p != types.Empty {
				score[p]++
				continue
			}
			if visited[y][x] {
				continue
			}
			region, borders := b.emptyRegion(visited, x, y)
			if borders == 1<<types.PlayerOne {
				score[types.PlayerOne] += float64(region)
			} else if borders == 1<<types.PlayerTwo {
				score[types.PlayerTwo] += float64(region)
			}
		}
	}
	score[types.PlayerTwo] += b.komi
	return score
}

// emptyRegion flood-fills the empty region containing (x, y) and returns its
// size and a bitmask of the colours touching it.
func (b *GoBoard) emptyRegion(visited [][]bool, x, y int) (int, int) {
	size, borders := 0, 0
	stack := [][2]int{{x, y}}
	visited[y][x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		for _, d := range orthogonal {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if nx < 0 || nx >= b.size || ny < 0 || ny >= b.size {
				continue
			}
			switch occupant := b.grid[ny][nx]; {
			case occupant != types.Empty:
				borders |= 1 << occupant
			case !visited[ny][nx]:
				visited[ny][nx] = true
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}
	return size, borders
}

// removeCaptures removes any opponent groups adjacent to (x, y) that have zero liberties.
func removeCaptures(board [][]types.Player, size, x, y int, color types.Player) {
	opponent := color.Opponent()
	for _, d := range orthogonal {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= size || ny < 0 || ny >= size {
			continue
		}
		if board[ny][nx] == opponent && !hasLiberties(board, size, nx, ny, opponent) {
			removeGroup(board, size, nx, ny, opponent)
		}
	}
}

// hasLiberties checks if the group at (x, y) has any liberties using flood fill.
func hasLiberties(board [][]types.Player, size, x, y int, color types.Player) bool {
	visited := make([][]bool, size)
	for i := range visited {
		visited[i] = make([]bool, size)
	}
	return hasLibertiesDFS(board, visited, size, x, y, color)
}

func hasLibertiesDFS(board [][]types.Player, visited [][]bool, size, x, y int, color types.Player) bool {
	if x < 0 || x >= size || y < 0 || y >= size {
		return false
	}
	if visited[y][x] {
		return false
	}
	if board[y][x] == types.Empty {
		return true
	}
	if board[y][x] != color {
		return false
	}

	visited[y][x] = true
	for _, d := range orthogonal {
		if hasLibertiesDFS(board, visited, size, x+d[0], y+d[1], color) {
			return true
		}
	}
	return false
}

// removeGroup removes all stones in the group at (x, y) of the given color.
func removeGroup(board [][]types.Player, size, x, y int, color types.Player) {
	if x < 0 || x >= size || y < 0 || y >= size {
		return
	}
	if board[y][x] != color {
		return
	}
	board[y][x] = types.Empty
	for _, d := range orthogonal {
		removeGroup(board, size, x+d[0], y+d[1], color)
	}
}

func sameGrid(a, b [][]types.Player) bool {
	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				return false
			}
		}
	}
	return true
}
