package ui

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termzero/config"
	"termzero/types"
)

func choiceIndex(t *testing.T, te *ThemeEditorUI, code int) int {
	t.Helper()
	for i, c := range te.choices {
		if c == code {
			return i
		}
	}
	t.Fatalf("colour %d not offered", code)
	return -1
}

func TestThemeEditorPreviewsAndSaves(t *testing.T) {
	// Given an editor on the default config
	cfg := config.DefaultConfig()
	saved := 0
	te := NewThemeEditor(&cfg, func(c *config.Config) error {
		saved++
		return nil
	}, nil)
	require.Equal(t, len(paletteChoices), te.colorList.GetItemCount())
	assert.Equal(t, config.DefaultTheme.Ataxx.Board, te.pending)

	// When gold is highlighted for the Ataxx board
	te.choose(choiceIndex(t, te, 222))

	// Then the preview uses it but the config is untouched
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(60, 30)
	t.Cleanup(sim.Fini)
	te.drawPreview(sim, 0, 0, 60, 30)
	rc := NewRenderConfig(types.Ataxx, 5, 5, config.DefaultTheme).at(2, 1)
	x, y := rc.geometry.Anchor(types.Cell{Row: 0, Col: 0})
	_, style := contentAt(sim, x, y)
	_, bg, _ := style.Decompose()
	assert.Equal(t, tcell.PaletteColor(222), bg)
	assert.Equal(t, config.DefaultTheme.Ataxx.Board, cfg.Theme.Ataxx.Board)
	assert.Equal(t, 0, saved)

	// When it is applied
	te.apply()

	// Then the Ataxx palette changes and is saved, Go is untouched
	assert.Equal(t, 222, cfg.Theme.Ataxx.Board)
	assert.Equal(t, config.DefaultTheme.Go, cfg.Theme.Go)
	assert.Equal(t, 1, saved)
}

func TestThemeEditorCyclesSlotsAndGames(t *testing.T) {
	cfg := config.DefaultConfig()
	done := false
	te := NewThemeEditor(&cfg, nil, func() { done = true })

	assert.Nil(t, te.handleInput(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.Equal(t, 1, te.slot)
	assert.Equal(t, config.DefaultTheme.Ataxx.Line, te.pending)

	assert.Nil(t, te.handleInput(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone)))
	assert.Equal(t, types.Go, te.variant)
	assert.Equal(t, config.DefaultTheme.Go.Line, te.pending)

	// Backtab from the first slot wraps to the hint colour
	te.handleInput(tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone))
	te.handleInput(tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone))
	assert.Equal(t, len(themeSlots)-1, te.slot)
	assert.Equal(t, config.DefaultTheme.Go.Hint, te.pending)

	te.choose(choiceIndex(t, te, 40))
	te.apply()
	assert.Equal(t, 40, cfg.Theme.Go.Hint)
	assert.Equal(t, config.DefaultTheme.Ataxx, cfg.Theme.Ataxx)

	assert.NotNil(t, te.handleInput(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
	assert.Nil(t, te.handleInput(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, done)
}

func TestThemeEditorOffersUnlistedColour(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme.Ataxx.Board = 17
	te := NewThemeEditor(&cfg, nil, nil)

	require.Equal(t, len(paletteChoices)+1, te.colorList.GetItemCount())
	label, _ := te.colorList.GetItemText(len(paletteChoices))
	assert.Contains(t, label, "Current (17)")
	assert.Equal(t, len(paletteChoices), te.colorList.GetCurrentItem())
}

func TestThemeEditorKeepsColourWhenSaveFails(t *testing.T) {
	cfg := config.DefaultConfig()
	te := NewThemeEditor(&cfg, func(c *config.Config) error {
		return errors.New("disk full")
	}, nil)

	te.choose(choiceIndex(t, te, 222))
	te.apply()
	assert.Equal(t, 222, cfg.Theme.Ataxx.Board)
	assert.Contains(t, te.hint.GetText(false), "disk full")

	// An out of palette colour is rolled back
	te.pending = 300
	te.apply()
	assert.Equal(t, 222, cfg.Theme.Ataxx.Board)
	assert.Contains(t, te.hint.GetText(false), "256 colour palette")
}
