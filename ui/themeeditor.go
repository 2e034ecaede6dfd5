package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termzero/config"
	"termzero/types"
)

// themeSlots are the editable colours of one game's palette, in list order.
var themeSlots = []string{"Board", "Line", "Player 1", "Player 1 selected", "Player 2", "Player 2 selected", "Hint"}

func slotColor(c *config.PieceColors, slot int) *int {
	switch slot {
	case 0:
		return &c.Board
	case 1:
		return &c.Line
	case 2:
		return &c.PlayerOne
	case 3:
		return &c.PlayerOneSelected
	case 4:
		return &c.PlayerTwo
	case 5:
		return &c.PlayerTwoSelected
	}
	return &c.Hint
}

// Colours offered for every slot.
var paletteChoices = []struct {
	code int
	name string
}{
	{230, "Light Cream"},
	{222, "Gold"},
	{180, "Tan"},
	{179, "Light Brown"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{101, "Olive"},
	{255, "White"},
	{252, "Light Gray"},
	{250, "Gray"},
	{244, "Medium Gray"},
	{240, "Dark Gray"},
	{232, "Black"},
	{196, "Red"},
	{210, "Salmon"},
	{160, "Dark Red"},
	{21, "Blue"},
	{117, "Sky Blue"},
	{24, "Dark Cyan"},
	{22, "Dark Green"},
	{40, "Green"},
	{54, "Purple"},
}

// ThemeEditorUI edits the Ataxx and Go palettes with a live preview.
// Moving through the list previews a colour, Enter applies and saves it.
type ThemeEditorUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	save      func(*config.Config) error
	onDone    func()

	variant types.Variant
	slot    int
	pending int // colour under the cursor, shown in the preview
	choices []int
}

// NewThemeEditor edits cfg.Theme in place. save is called after every applied
// change.
func NewThemeEditor(cfg *config.Config, save func(*config.Config) error, onDone func()) *ThemeEditorUI {
	te := &ThemeEditorUI{
		cfg:     cfg,
		save:    save,
		onDone:  onDone,
		variant: types.Ataxx,
	}

	te.colorList = tview.NewList()
	te.colorList.SetBorder(true)
	te.colorList.SetBorderColor(menuColors.Border)
	te.colorList.ShowSecondaryText(false)
	te.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		te.choose(index)
	})
	te.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		te.choose(index)
		te.apply()
	})
	te.colorList.SetInputCapture(te.handleInput)

	te.preview = tview.NewBox()
	te.preview.SetBorder(true)
	te.preview.SetBorderColor(menuColors.Border)
	te.preview.SetTitle(" Preview ")
	te.preview.SetDrawFunc(te.drawPreview)

	te.hint = tview.NewTextView()
	te.hint.SetDynamicColors(true)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(te.colorList, 36, 0, true).
		AddItem(te.preview, 0, 1, false)
	te.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(te.hint, 1, 0, false)

	te.populate()
	te.setHint("")
	return te
}

func (te *ThemeEditorUI) Flex() *tview.Flex {
	return te.flex
}

func (te *ThemeEditorUI) palette() *config.PieceColors {
	if te.variant == types.Go {
		return &te.cfg.Theme.Go
	}
	return &te.cfg.Theme.Ataxx
}

// populate lists the choices for the current slot with its colour selected.
func (te *ThemeEditorUI) populate() {
	current := *slotColor(te.palette(), te.slot)

	te.choices = te.choices[:0]
	te.colorList.Clear()
	te.colorList.SetTitle(fmt.Sprintf(" %s: %s ", te.variant, themeSlots[te.slot]))
	selected := -1
	for _, c := range paletteChoices {
		if c.code == current {
			selected = len(te.choices)
		}
		te.addChoice(c.code, c.name)
	}
	if selected < 0 {
		selected = len(te.choices)
		te.addChoice(current, "Current")
	}
	te.colorList.SetCurrentItem(selected)
	te.pending = current
}

func (te *ThemeEditorUI) addChoice(code int, name string) {
	te.choices = append(te.choices, code)
	te.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)", tcell.PaletteColor(code).Hex(), name, code), "", 0, nil)
}

func (te *ThemeEditorUI) choose(index int) {
	if index >= 0 && index < len(te.choices) {
		te.pending = te.choices[index]
	}
}

// apply stores the pending colour in the current slot and saves the config.
// An invalid result is rolled back.
func (te *ThemeEditorUI) apply() {
	slot := slotColor(te.palette(), te.slot)
	previous := *slot
	*slot = te.pending
	if err := te.cfg.Validate(); err != nil {
		*slot = previous
		te.setHint(err.Error())
		return
	}
	if te.save != nil {
		if err := te.save(te.cfg); err != nil {
			te.setHint(err.Error())
			return
		}
	}
	te.setHint(fmt.Sprintf("%s set to %d", themeSlots[te.slot], te.pending))
}

func (te *ThemeEditorUI) setHint(msg string) {
	text := "  [gray]⏎[-] apply  [gray]Tab[-] next colour  [gray]v[-] switch game  [gray]q[-] back"
	if msg != "" {
		text = "  " + tview.Escape(msg) + "   " + text
	}
	te.hint.SetText(text)
}

func (te *ThemeEditorUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if te.onDone != nil {
			te.onDone()
		}
		return nil
	case tcell.KeyTab:
		te.slot = (te.slot + 1) % len(themeSlots)
		te.populate()
		return nil
	case tcell.KeyBacktab:
		te.slot = (te.slot + len(themeSlots) - 1) % len(themeSlots)
		te.populate()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if te.onDone != nil {
				te.onDone()
			}
			return nil
		case 'v':
			te.variant = types.Variant(1 - int(te.variant))
			te.populate()
			return nil
		}
	}
	return event
}

// previewTheme is the current theme with the pending colour in place.
func (te *ThemeEditorUI) previewTheme() config.Theme {
	theme := te.cfg.Theme
	colors := theme.Ataxx
	if te.variant == types.Go {
		colors = theme.Go
	}
	*slotColor(&colors, te.slot) = te.pending
	if te.variant == types.Go {
		theme.Go = colors
	} else {
		theme.Ataxx = colors
	}
	return theme
}

// drawPreview draws a sample position: a selected piece with hints around it
// and a last move.
func (te *ThemeEditorUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	size := 5
	if te.variant == types.Go {
		size = 7
	}
	rc := NewRenderConfig(te.variant, size, size, te.previewTheme()).at(x+2, y+1)
	w, h := rc.geometry.Extent()
	if width < w+4 || height < h+2 {
		return x, y, width, height
	}

	grid := types.NewGrid(size, size)
	grid[1][1] = types.PlayerOne
	grid[2][3] = types.PlayerOne
	grid[3][2] = types.PlayerTwo
	grid[3][3] = types.PlayerTwo
	selected := types.Cell{Row: 1, Col: 1}
	last := types.Cell{Row: 3, Col: 3}
	hints := hintCells(&types.BoardState{Board: grid}, selected)

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cell := types.Cell{Row: r, Col: c}
			look := cellLook{
				occupant: grid[r][c],
				selected: cell == selected,
				hinted:   hints[cell],
				last:     cell == last,
			}
			if c+1 < size {
				look.right = grid[r][c+1]
			}
			rc.drawCell(screen, r, c, look)
		}
	}
	return x, y, width, height
}

// RunThemeEditor shows the editor full screen and saves changes to the
// user's config file.
func RunThemeEditor(cfg *config.Config) error {
	app := tview.NewApplication()
	te := NewThemeEditor(cfg, func(c *config.Config) error { return c.Save() }, app.Stop)
	return app.SetRoot(te.Flex(), true).EnableMouse(true).Run()
}
