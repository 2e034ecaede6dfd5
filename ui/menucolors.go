package ui

import "github.com/gdamore/tcell/v2"

// menuColors is the palette for the setup form and the history browser.
var menuColors = struct {
	Border      tcell.Color
	Title       tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Field       tcell.Color
	FieldText   tcell.Color
	ButtonBG    tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	Error       tcell.Color
	Result      tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	Title:       tcell.PaletteColor(255),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Field:       tcell.PaletteColor(236),
	FieldText:   tcell.PaletteColor(255),
	ButtonBG:    tcell.PaletteColor(60),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	Error:       tcell.PaletteColor(167),
	Result:      tcell.PaletteColor(109),
}
