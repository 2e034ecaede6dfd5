package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termzero/config"
	"termzero/engine"
	"termzero/sgf"
	"termzero/types"
)

// HistoryBrowserUI lists recorded games with a preview of the final position.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	theme    config.Theme
	games    []sgf.GameInfo
	boards   map[string]engine.Board // replayed records by path
	errs     map[string]error
	selected int
	onDone   func()
}

// NewHistoryBrowser creates a browser over the records in dir.
func NewHistoryBrowser(dir string, theme config.Theme, onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:    dir,
		theme:  theme,
		onDone: onDone,
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetBorderColor(menuColors.Border)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(menuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(menuColors.ButtonText).
		Background(menuColors.ButtonFocus))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetBorderColor(menuColors.Border)
	hb.preview.SetTitle(" Final Position ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetText("  [gray]d[-] delete  [gray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 44, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.Refresh()
	return hb
}

func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	hb.boards = make(map[string]engine.Board)
	hb.errs = make(map[string]error)
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil || len(games) == 0 {
		hb.gameList.AddItem("[gray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		result := g.Result
		if result == "" || result == "?" {
			result = "..."
		}
		label := fmt.Sprintf("%s  %-5s %dx%d  %s", g.Date, g.Variant, g.BoardSize, g.BoardSize, result)
		hb.gameList.AddItem(label, "", 0, nil)
	}
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	os.Remove(hb.games[hb.selected].FilePath)
	hb.Refresh()
}

// finalBoard replays the record at path once and caches the board.
func (hb *HistoryBrowserUI) finalBoard(path string) (engine.Board, error) {
	if b, ok := hb.boards[path]; ok {
		return b, nil
	}
	if err, ok := hb.errs[path]; ok {
		return nil, err
	}
	b, err := sgf.Replay(path)
	if err != nil {
		hb.errs[path] = err
		return nil, err
	}
	hb.boards[path] = b
	return b, nil
}

// drawPreview renders the final position with the game's own theme and the
// record's metadata below it.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	g := hb.games[hb.selected]
	infoStyle := tcell.StyleDefault.Foreground(menuColors.Label)
	dimStyle := tcell.StyleDefault.Foreground(menuColors.Hint)
	startX, startY := x+2, y+1

	board, err := hb.finalBoard(g.FilePath)
	if err != nil {
		tview.Print(screen, err.Error(), startX, startY, width-4, tview.AlignLeft, menuColors.Error)
		return x, y, width, height
	}

	state := board.State()
	rc := NewRenderConfig(state.Variant, state.Height(), state.Width(), hb.theme).at(startX, startY)
	w, h := rc.geometry.Extent()
	if width < w+4 || height < h+6 {
		return x, y, width, height
	}
	last := types.OutOfBounds
	if state.LastMove != nil && state.LastMove.Kind != types.Pass {
		last = state.LastMove.To
	}
	for r := 0; r < state.Height(); r++ {
		for c := 0; c < state.Width(); c++ {
			look := cellLook{
				occupant: state.Board[r][c],
				last:     last == (types.Cell{Row: r, Col: c}),
			}
			if c+1 < state.Width() {
				look.right = state.Board[r][c+1]
			}
			rc.drawCell(screen, r, c, look)
		}
	}

	infoY := startY + h + 1
	drawText(screen, startX, infoY, fmt.Sprintf("%s %dx%d", g.Variant, g.BoardSize, g.BoardSize), infoStyle)
	drawText(screen, startX+12, infoY, fmt.Sprintf("| %d moves", g.MoveCount), dimStyle)
	infoY++
	tview.Print(screen, fmt.Sprintf("%s: %s", playerTag(g.Variant, types.PlayerOne), tview.Escape(g.PlayerBlack)), startX, infoY, width-4, tview.AlignLeft, menuColors.Hint)
	infoY++
	tview.Print(screen, fmt.Sprintf("%s: %s", playerTag(g.Variant, types.PlayerTwo), tview.Escape(g.PlayerWhite)), startX, infoY, width-4, tview.AlignLeft, menuColors.Hint)
	infoY++
	result := g.Result
	if result == "" || result == "?" {
		result = "Unfinished"
	}
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", result), tcell.StyleDefault.Foreground(menuColors.Result))

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

// RunHistoryBrowser shows the browser full screen until the user leaves it.
func RunHistoryBrowser(dir string, theme config.Theme) error {
	app := tview.NewApplication()
	hb := NewHistoryBrowser(dir, theme, app.Stop)
	return app.SetRoot(hb.Flex(), true).EnableMouse(true).Run()
}
