package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termzero/engine"
	"termzero/types"
)

var (
	variantLabels = []string{"Ataxx", "Go"}
	sideLabels    = []string{"Player 1 (moves first)", "Player 2", "Watch"}
	policyLabels  = []string{"Search", "GnuGo"}
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	help     *tview.TextView
	sizes    *tview.DropDown
	onStart  func(engine.GameConfig)
	onCancel func()

	cfg engine.GameConfig
}

// NewGameSetup creates a form seeded with defaults.
func NewGameSetup(defaults engine.GameConfig, onStart func(engine.GameConfig), onCancel func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		cfg:      defaults,
	}

	form := tview.NewForm()

	form.AddDropDown("Game", variantLabels, int(defaults.Variant), func(option string, index int) {
		if index < 0 {
			return
		}
		setup.setVariant(types.Variant(index))
	})

	setup.sizes = tview.NewDropDown().SetLabel("Board Size")
	form.AddFormItem(setup.sizes)
	setup.setVariant(defaults.Variant)

	side := 2
	if defaults.HumanPlayer != types.Empty {
		side = int(defaults.HumanPlayer) - 1
	}
	form.AddDropDown("You Play", sideLabels, side, func(option string, index int) {
		if index < 0 {
			return
		}
		setup.cfg.HumanPlayer = types.Player(index + 1)
		if index == 2 {
			setup.cfg.HumanPlayer = types.Empty
		}
	})

	policy := 0
	if defaults.Policy == "gnugo" {
		policy = 1
	}
	form.AddDropDown("Opponent", policyLabels, policy, func(option string, index int) {
		if index < 0 {
			return
		}
		setup.cfg.Policy = "mcts"
		if index == 1 {
			setup.cfg.Policy = "gnugo"
		}
	})

	form.AddInputField("Iterations", strconv.Itoa(defaults.Iterations), 8, tview.InputFieldInteger, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.cfg.Iterations = val
		}
	})

	form.AddInputField("Komi", fmt.Sprintf("%.1f", defaults.Komi), 8, func(text string, lastChar rune) bool {
		return (lastChar >= '0' && lastChar <= '9') || lastChar == '.' || lastChar == '-'
	}, func(text string) {
		if val, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			setup.cfg.Komi = val
		}
	})

	form.AddButton("Start Game", setup.start)
	form.AddButton("Quit", func() {
		if onCancel != nil {
			onCancel()
		}
	})

	form.SetBorder(true)
	form.SetBorderColor(menuColors.Border)
	form.SetTitle(" New Game ")
	form.SetTitleColor(menuColors.Title)
	form.SetTitleAlign(tview.AlignCenter)
	form.SetLabelColor(menuColors.Label)
	form.SetFieldBackgroundColor(menuColors.Field)
	form.SetFieldTextColor(menuColors.FieldText)
	form.SetButtonBackgroundColor(menuColors.ButtonBG)
	form.SetButtonTextColor(menuColors.ButtonText)

	setup.help = tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	setup.help.SetTextColor(menuColors.Hint)

	setup.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.help, 1, 0, false)

	setup.form = form
	return setup
}

// setVariant repopulates the board sizes for v, keeping the current size
// when v supports it.
func (s *GameSetupUI) setVariant(v types.Variant) {
	s.cfg.Variant = v
	if s.sizes == nil {
		return
	}
	lo, hi := engine.SizeLimits(v)
	var labels []string
	for n := lo; n <= hi; n++ {
		labels = append(labels, fmt.Sprintf("%dx%d", n, n))
	}
	current := s.cfg.BoardSize
	if current < lo || current > hi {
		current = lo
	}
	s.sizes.SetOptions(labels, func(option string, index int) {
		if index < 0 {
			return
		}
		s.cfg.BoardSize = lo + index
	})
	s.sizes.SetCurrentOption(current - lo)
}

// Config returns the configuration the form currently describes.
func (s *GameSetupUI) Config() engine.GameConfig {
	return s.cfg
}

func (s *GameSetupUI) start() {
	if err := s.cfg.Validate(); err != nil {
		s.help.SetText(err.Error())
		s.help.SetTextColor(menuColors.Error)
		return
	}
	if s.onStart != nil {
		s.onStart(s.cfg)
	}
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}

// RunSetup shows the setup form full screen and returns the chosen
// configuration. ok is false when the user quits.
func RunSetup(defaults engine.GameConfig) (cfg engine.GameConfig, ok bool, err error) {
	app := tview.NewApplication()
	setup := NewGameSetup(defaults, func(c engine.GameConfig) {
		cfg, ok = c, true
		app.Stop()
	}, app.Stop)
	setup.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})
	err = app.SetRoot(CreateCenteredForm(setup.Form(), 60), true).EnableMouse(true).Run()
	return cfg, ok, err
}
