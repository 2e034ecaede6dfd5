package config

// DefaultTheme draws Ataxx as red and blue pieces on a light grey board and Go
// as black and white stones on wood.
var DefaultTheme = Theme{
	DrawCursorBackground:     true,
	DrawLastPlayedBackground: true,
	UseGridLines:             true,
	CursorColorBG:            4,
	LastPlayedColorBG:        2,
	Ataxx: PieceColors{
		Board:             252,
		Line:              244,
		PlayerOne:         196,
		PlayerOneSelected: 210,
		PlayerTwo:         21,
		PlayerTwoSelected: 117,
		Hint:              240,
	},
	Go: PieceColors{
		Board:             180,
		Line:              94,
		PlayerOne:         232,
		PlayerOneSelected: 240,
		PlayerTwo:         255,
		PlayerTwoSelected: 250,
		Hint:              101,
	},
	Symbols: ConfigSymbols{
		Piece:      '●',
		Hint:       '·',
		EmptyCell:  '┼',
		Cursor:     '┼',
		LastPlayed: '┼',
	},
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Theme: DefaultTheme,
		Game: GameDefaults{
			Variant:    "ataxx",
			BoardSize:  4,
			Iterations: 50,
			Komi:       6.5,
		},
		GnuGo: GnuGoConfig{
			Path:  "gnugo",
			Level: 5,
		},
		LogLevel: "info",
	}
}
