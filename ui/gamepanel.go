package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"termzero/engine"
	"termzero/types"
)

// MoveEntry is one applied move as shown in the side panel.
type MoveEntry struct {
	Player types.Player
	Move   types.Move
}

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	title      string
	boardState *types.BoardState
	history    []MoveEntry
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(title string) *GameInfoPanel {
	panel := &GameInfoPanel{
		box:   tview.NewTextView(),
		title: title,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// AddMove appends a move to the history.
func (p *GameInfoPanel) AddMove(player types.Player, m types.Move) {
	p.history = append(p.history, MoveEntry{Player: player, Move: m})
	p.refresh()
}

// History returns the moves shown so far.
func (p *GameInfoPanel) History() []MoveEntry {
	return p.history
}

func playerTag(v types.Variant, p types.Player) string {
	if v == types.Go {
		if p == types.PlayerOne {
			return "[white]B[-]"
		}
		return "[dimgray]W[-]"
	}
	if p == types.PlayerOne {
		return "[red]R[-]"
	}
	return "[blue]B[-]"
}

func (p *GameInfoPanel) refresh() {
	if p.boardState == nil {
		p.box.SetText("")
		return
	}
	state := p.boardState
	size := state.Width()

	var text strings.Builder

	text.WriteString(fmt.Sprintf("[white::b]%s[-:-:-]\n", p.title))
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	text.WriteString(fmt.Sprintf("[white]Move:[-:-:-] %d\n", state.MoveNumber))
	text.WriteString(fmt.Sprintf("[white]Score:[-:-:-] %s %g  %s %g\n",
		playerTag(state.Variant, types.PlayerOne), state.Score[types.PlayerOne],
		playerTag(state.Variant, types.PlayerTwo), state.Score[types.PlayerTwo]))
	if state.Finished() {
		text.WriteString(fmt.Sprintf("[yellow::b]%s[-:-:-]\n", state.Outcome))
	} else {
		text.WriteString(fmt.Sprintf("[white]To move:[-:-:-] %s\n", playerTag(state.Variant, state.PlayerToMove)))
	}

	if len(p.history) == 0 {
		p.box.SetText(text.String())
		return
	}

	text.WriteString("\n[white::b]Moves[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	// Show the last moves that fit.
	maxVisible := 12
	start := 0
	if len(p.history) > maxVisible {
		start = len(p.history) - maxVisible
	}

	for i := start; i < len(p.history); i++ {
		m := p.history[i]
		marker := " "
		if i == len(p.history)-1 {
			marker = "[white]>[-]"
		}
		text.WriteString(fmt.Sprintf("%s[dimgray]%3d.[-] %s %s\n", marker, i+1,
			playerTag(state.Variant, m.Player), engine.MoveToDisplay(m.Move, size)))
	}

	if start > 0 {
		text.WriteString(fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start))
	}

	p.box.SetText(text.String())
}
