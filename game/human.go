package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"termzero/engine"
	"termzero/types"
)

// Interactive asks a human for moves through pointer events.
type Interactive struct {
	Geometry types.Geometry
	Events   EventSource
	View     View
}

func (h *Interactive) Propose(ctx context.Context, board engine.Board) (types.Move, error) {
	a := NewAcquirer(board, board.Variant().Shape(), h.Geometry, h.Events, h.View)
	m, err := a.Acquire()
	if err != nil {
		return m, err
	}
	h.View.UnselectPiece()
	return m, nil
}

// TextSource reads moves as lines of whitespace separated integers:
// "row col" for a placement, "row col row col" for a transfer.
// "pass" is accepted where passing is a move, "q" or "quit" leaves the game.
// Lines are only parsed here; legality is checked by the game loop.
type TextSource struct {
	scanner *bufio.Scanner
	prompt  io.Writer
	view    View
}

func NewTextSource(r io.Reader, prompt io.Writer, view View) *TextSource {
	return &TextSource{
		scanner: bufio.NewScanner(r),
		prompt:  prompt,
		view:    view,
	}
}

func (s *TextSource) Propose(ctx context.Context, board engine.Board) (types.Move, error) {
	shape := board.Variant().Shape()
	for {
		if err := ctx.Err(); err != nil {
			return types.Move{}, err
		}
		if s.prompt != nil {
			fmt.Fprint(s.prompt, "Move: ")
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return types.Move{}, fmt.Errorf("failed to read move: %w", err)
			}
			return types.Move{}, ErrQuit
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			return types.Move{}, ErrQuit
		}
		m, err := ParseMove(line, shape)
		if err != nil {
			s.view.Signal(SignalInvalidInput)
			continue
		}
		return m, nil
	}
}

// ParseMove parses one text move for the given shape. It checks the number
// of fields only, not bounds or legality.
func ParseMove(line string, shape types.MoveShape) (types.Move, error) {
	fields := strings.Fields(line)
	if len(fields) == 1 && strings.EqualFold(fields[0], "pass") {
		if shape != types.ShapePlacement {
			return types.Move{}, fmt.Errorf("pass is not a move in this game")
		}
		return types.PassMove(), nil
	}

	want := 2
	if shape == types.ShapeTransfer {
		want = 4
	}
	if len(fields) != want {
		return types.Move{}, fmt.Errorf("expected %d numbers, got %d", want, len(fields))
	}
	nums := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return types.Move{}, fmt.Errorf("invalid number %q: %w", f, err)
		}
		nums[i] = n
	}
	if shape == types.ShapeTransfer {
		return types.TransferFrom(
			types.Cell{Row: nums[0], Col: nums[1]},
			types.Cell{Row: nums[2], Col: nums[3]},
		), nil
	}
	return types.PlaceAt(nums[0], nums[1]), nil
}
