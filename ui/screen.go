package ui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termzero/game"
	"termzero/log"
	"termzero/types"
)

const controlsLine = "hjkl/↑↓←→ move  ⏎ select  p pass  q quit"

// Screen renders a game on a terminal and reports mouse and keyboard input as
// game events. It is a game.View, a game.EventSource and a game.Recorder.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	rc     RenderConfig
	panel  *GameInfoPanel

	state    *types.BoardState
	selected *types.Cell
	hinted   types.Cell
	cursor   types.Cell
	status   string
	alert    bool
	buttons  tcell.ButtonMask
}

// OpenScreen initialises the terminal and enables the mouse.
func OpenScreen(rc RenderConfig) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise screen: %w", err)
	}
	s.EnableMouse()
	return NewScreen(s, rc), nil
}

// NewScreen wraps an already initialised tcell screen.
func NewScreen(s tcell.Screen, rc RenderConfig) *Screen {
	return &Screen{
		screen: s,
		rc:     rc,
		panel:  NewGameInfoPanel(rc.Title()),
		hinted: types.OutOfBounds,
		cursor: types.OutOfBounds,
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// DrawBoard implements game.View.
func (s *Screen) DrawBoard(state *types.BoardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.alert = false
	if state.Finished() {
		s.status = ""
	} else {
		s.status = fmt.Sprintf("%s to move", state.PlayerToMove)
	}
	s.panel.SetBoardState(state)
	s.draw()
}

// DrawSelectedPiece implements game.View.
func (s *Screen) DrawSelectedPiece(c types.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &c
	s.draw()
}

// UnselectPiece implements game.View.
func (s *Screen) UnselectPiece() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.draw()
}

// DrawHints implements game.View. Hints cover the empty cells around c;
// an out of bounds cell clears them.
func (s *Screen) DrawHints(c types.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hinted = c
	s.draw()
}

// Signal implements game.View.
func (s *Screen) Signal(sig game.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = sig.String()
	s.alert = true
	s.draw()
}

// DrawOutcome implements game.View.
func (s *Screen) DrawOutcome(state *types.BoardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.selected = nil
	s.hinted = types.OutOfBounds
	s.cursor = types.OutOfBounds
	s.alert = false
	s.status = fmt.Sprintf("Result: %s  (q to exit)", state.Outcome)
	s.panel.SetBoardState(state)
	s.draw()
}

// MoveApplied implements game.Recorder by adding the move to the side panel.
func (s *Screen) MoveApplied(player types.Player, m types.Move, state *types.BoardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.hinted = types.OutOfBounds
	s.panel.AddMove(player, m)
	return nil
}

// Finished implements game.Recorder.
func (s *Screen) Finished(*types.BoardState) error {
	return nil
}

// WaitKey blocks until a key is pressed or the screen is closed.
func (s *Screen) WaitKey() {
	for {
		switch s.screen.PollEvent().(type) {
		case *tcell.EventKey, nil:
			return
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.Sync()
			s.draw()
			s.mu.Unlock()
		}
	}
}

// AwaitEvent implements game.EventSource. It blocks until the terminal
// produces something the game cares about.
func (s *Screen) AwaitEvent() game.Event {
	for {
		ev, ok := s.translate(s.screen.PollEvent())
		if ok {
			log.Trace("ui: event %+v", ev)
			return ev
		}
	}
}

func (s *Screen) translate(raw tcell.Event) (game.Event, bool) {
	switch ev := raw.(type) {
	case nil:
		// The screen was finalised.
		return game.Event{Kind: game.EventQuit}, true
	case *tcell.EventResize:
		s.mu.Lock()
		s.screen.Sync()
		s.draw()
		s.mu.Unlock()
	case *tcell.EventMouse:
		x, y := ev.Position()
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && s.buttons&tcell.Button1 == 0
		s.buttons = buttons
		if pressed {
			return game.Click(x, y), true
		}
		return game.Hover(x, y), true
	case *tcell.EventKey:
		return s.key(ev)
	}
	return game.Event{}, false
}

func (s *Screen) key(ev *tcell.EventKey) (game.Event, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Event{Kind: game.EventQuit}, true
	case tcell.KeyEnter:
		cursor := s.Cursor()
		if cursor == types.OutOfBounds {
			return game.Event{}, false
		}
		x, y := s.rc.Geometry().Anchor(cursor)
		return game.Click(x, y), true
	case tcell.KeyUp:
		return s.moveCursor(-1, 0)
	case tcell.KeyDown:
		return s.moveCursor(1, 0)
	case tcell.KeyLeft:
		return s.moveCursor(0, -1)
	case tcell.KeyRight:
		return s.moveCursor(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return game.Event{Kind: game.EventQuit}, true
		case 'p':
			return game.Event{Kind: game.EventPass}, true
		case 'k':
			return s.moveCursor(-1, 0)
		case 'j':
			return s.moveCursor(1, 0)
		case 'h':
			return s.moveCursor(0, -1)
		case 'l':
			return s.moveCursor(0, 1)
		}
	}
	return game.Event{}, false
}

// moveCursor shifts the keyboard cursor and reports it as a hover. The first
// key press puts the cursor on the last move, or the centre of the board.
func (s *Screen) moveCursor(dr, dc int) (game.Event, bool) {
	s.mu.Lock()
	g := s.rc.Geometry()
	if s.cursor == types.OutOfBounds {
		s.cursor = types.Cell{Row: g.Rows / 2, Col: g.Cols / 2}
		if s.state != nil && s.state.LastMove != nil && s.state.LastMove.To.In(g.Rows, g.Cols) {
			s.cursor = s.state.LastMove.To
		}
	} else {
		next := types.Cell{Row: s.cursor.Row + dr, Col: s.cursor.Col + dc}
		if next.In(g.Rows, g.Cols) {
			s.cursor = next
		}
	}
	cursor := s.cursor
	s.draw()
	s.mu.Unlock()

	x, y := g.Anchor(cursor)
	return game.Hover(x, y), true
}

// Cursor returns the keyboard cursor, or types.OutOfBounds before it is used.
func (s *Screen) Cursor() types.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// draw repaints everything. Callers hold s.mu.
func (s *Screen) draw() {
	s.screen.Clear()
	tview.Print(s.screen, "[::b]"+s.rc.Title(), 0, 0, s.rc.Width(), tview.AlignLeft, tview.Styles.PrimaryTextColor)
	if s.state == nil || s.state.Width() == 0 {
		s.screen.Show()
		return
	}

	state := s.state
	hints := hintCells(state, s.hinted)
	last := types.OutOfBounds
	if state.LastMove != nil {
		last = state.LastMove.To
	}

	for r := 0; r < state.Height(); r++ {
		for c := 0; c < state.Width(); c++ {
			cell := types.Cell{Row: r, Col: c}
			look := cellLook{
				occupant: state.At(cell),
				selected: s.selected != nil && *s.selected == cell,
				hinted:   hints[cell],
				cursor:   cell == s.cursor,
				last:     cell == last,
				right:    state.At(types.Cell{Row: r, Col: c + 1}),
			}
			s.rc.drawCell(s.screen, r, c, look)
		}
	}
	s.rc.drawCoordinates(s.screen, s.cursor, last)

	// Side panel to the right of the board, status bar along the bottom.
	g := s.rc.Geometry()
	w, _ := g.Extent()
	sw, sh := s.screen.Size()
	s.panel.Box().SetRect(g.OriginX+w+2, g.OriginY, panelWidth, sh-g.OriginY-2)
	s.panel.Box().Draw(s.screen)

	statusColor := tview.Styles.PrimaryTextColor
	if s.alert {
		statusColor = tcell.ColorRed
	}
	tview.Print(s.screen, s.status, 1, sh-2, sw-1, tview.AlignLeft, statusColor)
	if !state.Finished() {
		tview.Print(s.screen, controlsLine, 1, sh-1, sw-1, tview.AlignLeft, tcell.ColorGray)
	}
	s.screen.Show()
}
